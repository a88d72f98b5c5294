// Package service implements the LaunchService: owner of the launch context,
// the cross-thread queues, and the handler registry, running the single
// cooperative loop that executes entities and dispatches events.
//
// Everything user-visible runs on the loop; external threads interact only
// through the thread-safe entry points Include, EmitEvent, and Shutdown,
// which enqueue under a mutex and wake the loop through a condition
// variable.
package service

import (
	"slices"
	"sync"
	"time"

	"github.com/vk/launchgo/internal/handlers"
	"github.com/vk/launchgo/internal/launch"
)

// State is the service lifecycle state.
type State int

// The service moves strictly forward: Idle → Running → ShuttingDown →
// Stopped. Stopped is terminal.
const (
	Idle State = iota
	Running
	ShuttingDown
	Stopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// defaultShutdownGrace bounds the window between the termination signal and
// the forced stop of a process that ignores it.
const defaultShutdownGrace = 5 * time.Second

// Config tunes a Service.
type Config struct {
	// ShutdownGrace is the two-phase termination window; zero selects the
	// default.
	ShutdownGrace time.Duration

	// ExitWhenIdle shuts the service down on its own once the queues are
	// drained and no tracked side effect (process, timer) remains. When
	// false the service idles and blocks until an external stimulus or
	// Shutdown arrives.
	ExitWhenIdle bool
}

// Service is the launch service. Create it with New; the zero value is not
// usable.
type Service struct {
	mu   sync.Mutex
	cond *sync.Cond

	state             State
	inboxEntities     []launch.Entity
	inboxEvents       []launch.Event
	shutdownRequested bool
	shutdownReason    string
	tracked           []launch.Cancellable

	// Loop-only state, never touched by external threads.
	lc       *launch.Context
	registry *handlers.Registry
	executed map[launch.Entity]bool

	grace        time.Duration
	exitWhenIdle bool
}

// New creates an idle service wired to a fresh context and handler registry.
func New(cfg Config) *Service {
	s := &Service{
		state:        Idle,
		registry:     handlers.NewRegistry(),
		executed:     make(map[launch.Entity]bool),
		grace:        cfg.ShutdownGrace,
		exitWhenIdle: cfg.ExitWhenIdle,
	}
	if s.grace <= 0 {
		s.grace = defaultShutdownGrace
	}
	s.cond = sync.NewCond(&s.mu)

	s.lc = launch.NewContext()
	s.lc.Events = s
	s.lc.Handlers = s.registry
	s.lc.Tracker = s
	return s
}

// Context exposes the service's launch context so callers can apply initial
// configuration overrides before Run.
func (s *Service) Context() *launch.Context {
	return s.lc
}

// Handlers exposes the handler registry for callers registering reactions
// outside of a description.
func (s *Service) Handlers() *handlers.Registry {
	return s.registry
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Include enqueues a description's top-level entities. It is safe to call
// from any goroutine, before or during Run; entities included while Idle
// wait until the loop starts. After the service has stopped it fails with
// launch.ErrServiceClosed.
func (s *Service) Include(desc *launch.Description) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Stopped {
		return launch.ErrServiceClosed
	}
	s.inboxEntities = append(s.inboxEntities, desc.Entities()...)
	s.cond.Broadcast()
	return nil
}

// EmitEvent implements launch.EventSink. It is safe to call from any
// goroutine; events emitted after the service stopped are dropped.
func (s *Service) EmitEvent(ev launch.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Stopped {
		return
	}
	s.inboxEvents = append(s.inboxEvents, ev)
	s.cond.Broadcast()
}

// Shutdown requests termination. It is idempotent, safe from any goroutine
// including the loop itself, and keeps the first reason it was given. Run
// unblocks, cancels in-flight side effects, runs cleanup reactions, and
// returns.
func (s *Service) Shutdown(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Stopped || s.shutdownRequested {
		return
	}
	s.shutdownRequested = true
	s.shutdownReason = reason
	s.cond.Broadcast()
}

// Track implements launch.Tracker.
func (s *Service) Track(c launch.Cancellable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.tracked, c) {
		s.tracked = append(s.tracked, c)
	}
	s.cond.Broadcast()
}

// Untrack implements launch.Tracker. Untracking something not tracked is a
// no-op.
func (s *Service) Untrack(c launch.Cancellable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.tracked, c); i >= 0 {
		s.tracked = slices.Delete(s.tracked, i, i+1)
	}
	s.cond.Broadcast()
}

// trackedSnapshot copies the tracked side effects for the shutdown pass.
func (s *Service) trackedSnapshot() []launch.Cancellable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tracked)
}
