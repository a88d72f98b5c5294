package actions

import (
	"context"
	"fmt"

	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/process"
)

// ExecuteProcess spawns a process through the configured backend. All of its
// fields holding substitutions are resolved lazily when the action executes.
//
// While the process runs, the action keeps two handlers registered: one that
// forwards SignalProcess events to the handle and one that untracks the
// handle (and removes both handlers) once the process exits.
type ExecuteProcess struct {
	base

	// Name labels the process in events; it falls back to the resolved
	// executable when empty.
	Name string

	// Cmd is the argv, one substitution per element.
	Cmd []launch.Substitution

	// Cwd is the working directory; nil inherits the service's.
	Cwd []launch.Substitution

	// Env holds environment overrides whose values are substitutions.
	Env map[string]launch.Substitution

	// Backend overrides the process backend, mainly for tests. Nil selects
	// the local backend.
	Backend process.Backend
}

// NewExecuteProcess builds a process action for the given argv.
func NewExecuteProcess(name string, cmd []launch.Substitution, opts ...Option) *ExecuteProcess {
	return &ExecuteProcess{base: newBase(opts), Name: name, Cmd: cmd}
}

// Visit implements launch.Entity. It resolves the spec, starts the process,
// and registers the lifetime handlers; the backend's watcher reports exit
// asynchronously through the event queue.
func (a *ExecuteProcess) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	spec, err := a.resolveSpec(lc)
	if err != nil {
		return nil, err
	}

	backend := a.Backend
	if backend == nil {
		backend = process.NewLocal()
	}
	handle, err := backend.Start(ctx, spec, lc.Events)
	if err != nil {
		return nil, err
	}
	lc.Tracker.Track(handle)

	signalHandler := &launch.EventHandler{
		Matcher: func(ev launch.Event) bool {
			sig, ok := ev.(events.SignalProcess)
			return ok && (sig.ProcessID == "" || sig.ProcessID == handle.ID())
		},
		React: func(ctx context.Context, lc *launch.Context, ev launch.Event) ([]launch.Entity, []launch.Event, error) {
			return nil, nil, handle.Signal(ev.(events.SignalProcess).Signal)
		},
	}

	var exitHandler *launch.EventHandler
	exitHandler = &launch.EventHandler{
		Matcher: func(ev launch.Event) bool {
			exited, ok := ev.(events.ProcessExited)
			return ok && exited.ProcessID == handle.ID()
		},
		React: func(ctx context.Context, lc *launch.Context, ev launch.Event) ([]launch.Entity, []launch.Event, error) {
			lc.Tracker.Untrack(handle)
			lc.Handlers.Unregister(signalHandler)
			lc.Handlers.Unregister(exitHandler)
			return nil, nil, nil
		},
	}
	lc.Handlers.Register(signalHandler)
	lc.Handlers.Register(exitHandler)

	return nil, nil
}

// resolveSpec evaluates all substitutions into a concrete process spec.
func (a *ExecuteProcess) resolveSpec(lc *launch.Context) (process.Spec, error) {
	spec := process.Spec{Name: a.Name}

	if len(a.Cmd) == 0 {
		return spec, fmt.Errorf("process action %q has an empty cmd", a.Name)
	}
	for _, sub := range a.Cmd {
		arg, err := sub.Evaluate(lc)
		if err != nil {
			return spec, err
		}
		spec.Cmd = append(spec.Cmd, arg)
	}
	if spec.Name == "" {
		spec.Name = spec.Cmd[0]
	}

	if a.Cwd != nil {
		cwd, err := launch.Resolve(lc, a.Cwd)
		if err != nil {
			return spec, err
		}
		spec.Dir = cwd
	}

	if len(a.Env) > 0 {
		spec.Env = make(map[string]string, len(a.Env))
		for key, sub := range a.Env {
			value, err := sub.Evaluate(lc)
			if err != nil {
				return spec, err
			}
			spec.Env[key] = value
		}
	}
	return spec, nil
}
