package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
)

// maxOutputLine caps a single forwarded output line; a longer one aborts the
// scan for that stream.
const maxOutputLine = 1 << 20

// Local is the default Backend: it spawns processes on the local machine via
// os/exec and watches them from a background goroutine.
type Local struct{}

// NewLocal creates the local process backend.
func NewLocal() *Local {
	return &Local{}
}

// Start implements Backend.
func (b *Local) Start(ctx context.Context, spec Spec, sink launch.EventSink) (Handle, error) {
	if len(spec.Cmd) == 0 {
		return nil, errors.New("process spec has an empty cmd")
	}
	logger := ctxlog.FromContext(ctx)

	cmd := exec.Command(spec.Cmd[0], spec.Cmd[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe for %q: %w", spec.Name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe for %q: %w", spec.Name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process %q: %w", spec.Name, err)
	}

	h := &localHandle{
		id:     uuid.NewString(),
		name:   spec.Name,
		cmd:    cmd,
		logger: logger,
		exited: make(chan struct{}),
	}
	logger.Info("▶️ Process started.", "name", spec.Name, "id", h.id, "pid", cmd.Process.Pid)
	sink.EmitEvent(events.ProcessStarted{
		ProcessID: h.id,
		Name:      spec.Name,
		Cmd:       spec.Cmd,
		PID:       cmd.Process.Pid,
	})

	var pipes sync.WaitGroup
	pipes.Add(2)
	go h.forwardOutput(&pipes, sink, "stdout", stdout)
	go h.forwardOutput(&pipes, sink, "stderr", stderr)
	go h.watch(&pipes, sink)

	return h, nil
}

// localHandle is the Handle for a locally spawned process.
type localHandle struct {
	id     string
	name   string
	cmd    *exec.Cmd
	logger *slog.Logger

	// exited is closed by the watcher once the process has been reaped.
	exited chan struct{}
}

// forwardOutput turns one output pipe into line events until EOF.
func (h *localHandle) forwardOutput(pipes *sync.WaitGroup, sink launch.EventSink, stream string, r io.Reader) {
	defer pipes.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
	for scanner.Scan() {
		sink.EmitEvent(events.ProcessOutput{
			ProcessID: h.id,
			Name:      h.name,
			Stream:    stream,
			Line:      scanner.Text(),
		})
	}
	if err := scanner.Err(); err != nil {
		h.logger.Error("Process output forwarding stopped.", "name", h.name, "stream", stream, "error", err)
	}
}

// watch reaps the process and reports its exit. Wait must only run after the
// pipe readers have drained, per the os/exec contract.
func (h *localHandle) watch(pipes *sync.WaitGroup, sink launch.EventSink) {
	pipes.Wait()
	err := h.cmd.Wait()
	close(h.exited)

	code := h.cmd.ProcessState.ExitCode()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Wait failed for a reason other than a non-zero exit; the code
		// stays -1 and the exit event still fires.
		code = -1
	}
	sink.EmitEvent(events.ProcessExited{ProcessID: h.id, Name: h.name, Code: code})
}

// ID implements Handle.
func (h *localHandle) ID() string { return h.id }

// Name implements Handle.
func (h *localHandle) Name() string { return h.name }

// IsAlive implements Handle.
func (h *localHandle) IsAlive() bool {
	select {
	case <-h.exited:
		return false
	default:
		return true
	}
}

// Signal implements Handle.
func (h *localHandle) Signal(sig os.Signal) error {
	if !h.IsAlive() {
		return nil
	}
	return h.cmd.Process.Signal(sig)
}

// Cancel implements launch.Cancellable with the two-phase stop: SIGTERM,
// wait for the context's grace period, then SIGKILL.
func (h *localHandle) Cancel(ctx context.Context) error {
	if !h.IsAlive() {
		return nil
	}
	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal process %q: %w", h.name, err)
	}
	select {
	case <-h.exited:
		return nil
	case <-ctx.Done():
	}
	if err := h.cmd.Process.Kill(); err != nil && h.IsAlive() {
		return fmt.Errorf("failed to kill process %q: %w", h.name, err)
	}
	<-h.exited
	return nil
}
