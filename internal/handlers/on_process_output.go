package handlers

import (
	"context"

	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
)

// OutputFunc reacts to one line of process output.
type OutputFunc func(ctx context.Context, lc *launch.Context, out events.ProcessOutput) ([]launch.Entity, error)

// OnProcessOutput builds a handler that reacts to output lines of the named
// process, routing each line to the callback for its stream. An empty name
// matches any process; a nil callback ignores that stream.
func OnProcessOutput(processName string, onStdout, onStderr OutputFunc) *launch.EventHandler {
	return &launch.EventHandler{
		Matcher: func(ev launch.Event) bool {
			out, ok := ev.(events.ProcessOutput)
			return ok && (processName == "" || out.Name == processName)
		},
		React: func(ctx context.Context, lc *launch.Context, ev launch.Event) ([]launch.Entity, []launch.Event, error) {
			out := ev.(events.ProcessOutput)
			fn := onStdout
			if out.Stream == "stderr" {
				fn = onStderr
			}
			if fn == nil {
				return nil, nil, nil
			}
			entities, err := fn(ctx, lc, out)
			return entities, nil, err
		},
	}
}
