// Package events defines the built-in event types emitted and consumed by
// the engine. Events are immutable value records tagged with a kind string;
// contributed event types only need to implement launch.Event.
package events

import (
	"os"

	"github.com/vk/launchgo/internal/launch"
)

// Kind strings of the built-in events.
const (
	KindProcessStarted = "process_started"
	KindProcessExited  = "process_exited"
	KindProcessOutput  = "process_output"
	KindSignalProcess  = "signal_process"
	KindShutdown       = "shutdown"
	KindActionFailed   = "action_failed"
	KindTimerExpired   = "timer_expired"
)

// ProcessStarted reports that a spawned process is running.
type ProcessStarted struct {
	ProcessID string
	Name      string
	Cmd       []string
	PID       int
}

// Kind implements launch.Event.
func (ProcessStarted) Kind() string { return KindProcessStarted }

// ProcessExited reports that a spawned process has finished, carrying its
// exit code.
type ProcessExited struct {
	ProcessID string
	Name      string
	Code      int
}

// Kind implements launch.Event.
func (ProcessExited) Kind() string { return KindProcessExited }

// ProcessOutput carries one line produced by a process on stdout or stderr.
type ProcessOutput struct {
	ProcessID string
	Name      string
	Stream    string // "stdout" or "stderr"
	Line      string
}

// Kind implements launch.Event.
func (ProcessOutput) Kind() string { return KindProcessOutput }

// SignalProcess asks the backend to deliver a signal to a running process.
// An empty ProcessID targets every process currently running.
type SignalProcess struct {
	ProcessID string
	Signal    os.Signal
}

// Kind implements launch.Event.
func (SignalProcess) Kind() string { return KindSignalProcess }

// Shutdown announces that the service is shutting down, so handlers can run
// their cleanup reactions before the loop stops.
type Shutdown struct {
	Reason string
}

// Kind implements launch.Event.
func (Shutdown) Kind() string { return KindShutdown }

// ActionFailed reports an entity whose visit or side effect raised an error.
// If no registered handler matches it, the loop stops and reports the error
// to the caller of Run.
type ActionFailed struct {
	Action string
	Err    error
}

// Kind implements launch.Event.
func (ActionFailed) Kind() string { return KindActionFailed }

// TimerExpired reports that a timer action's delay has elapsed.
type TimerExpired struct {
	TimerID string
}

// Kind implements launch.Event.
func (TimerExpired) Kind() string { return KindTimerExpired }

// Named returns a matcher for a single event kind.
func Named(kind string) func(launch.Event) bool {
	return func(ev launch.Event) bool {
		return ev.Kind() == kind
	}
}
