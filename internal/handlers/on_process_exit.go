package handlers

import (
	"context"

	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
)

// OnProcessExit builds a handler that reacts to the exit of the named
// process by enqueueing the given entities. An empty name matches any
// process exit.
func OnProcessExit(processName string, entities ...launch.Entity) *launch.EventHandler {
	return &launch.EventHandler{
		Matcher: func(ev launch.Event) bool {
			exited, ok := ev.(events.ProcessExited)
			return ok && (processName == "" || exited.Name == processName)
		},
		React: func(ctx context.Context, lc *launch.Context, ev launch.Event) ([]launch.Entity, []launch.Event, error) {
			return entities, nil, nil
		},
	}
}

// OnShutdown builds a handler that runs cleanup entities when the service
// begins shutting down.
func OnShutdown(entities ...launch.Entity) *launch.EventHandler {
	return &launch.EventHandler{
		Matcher: events.Named(events.KindShutdown),
		React: func(ctx context.Context, lc *launch.Context, ev launch.Event) ([]launch.Entity, []launch.Event, error) {
			return entities, nil, nil
		},
	}
}
