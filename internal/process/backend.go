// Package process is the collaborator that actually spawns and watches
// operating system processes. The engine only sees the Backend and Handle
// contracts plus the events a backend pushes onto the service's queue from
// its background watcher.
package process

import (
	"context"
	"os"

	"github.com/vk/launchgo/internal/launch"
)

// Spec describes one process to spawn.
type Spec struct {
	// Name labels the process in events and logs.
	Name string

	// Cmd is the argv: the executable followed by its arguments.
	Cmd []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Env holds environment overrides applied on top of the inherited
	// environment.
	Env map[string]string
}

// Handle is a live, spawned process. Its watcher emits ProcessStarted,
// ProcessOutput, and ProcessExited events onto the sink it was started with.
type Handle interface {
	launch.Cancellable

	ID() string
	Name() string
	IsAlive() bool

	// Signal delivers a signal to the process. Signalling a process that has
	// already exited is a no-op.
	Signal(sig os.Signal) error
}

// Backend spawns processes. Implementations must emit events from a
// background watcher goroutine, never from the calling goroutine, so the
// service loop stays responsive.
type Backend interface {
	Start(ctx context.Context, spec Spec, sink launch.EventSink) (Handle, error)
}
