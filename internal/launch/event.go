package launch

import "context"

// Event is an immutable record of an occurrence, tagged with a kind string so
// handlers and contributed event types can be matched without type inspection.
type Event interface {
	Kind() string
}

// EventHandler pairs a matcher with a reaction. Reactions run synchronously
// inside the service loop; long-running work belongs in a background action
// that reports completion through an emitted event.
//
// The zero value of Disabled means the handler is enabled.
type EventHandler struct {
	// Matcher reports whether this handler wants the event. A nil matcher
	// never matches.
	Matcher func(Event) bool

	// React produces follow-up entities for the action queue and further
	// events for the event queue.
	React func(ctx context.Context, lc *Context, ev Event) ([]Entity, []Event, error)

	// Disabled suspends the handler without unregistering it.
	Disabled bool
}

// EventSink accepts emitted events. The launch service implements it with a
// thread-safe queue, so background collaborators such as process watchers may
// call EmitEvent from any goroutine.
type EventSink interface {
	EmitEvent(ev Event)
}

// HandlerRegistry is where entities register and unregister reactions to
// events. Unregistering a handler that is not registered is a no-op.
type HandlerRegistry interface {
	Register(h *EventHandler)
	Unregister(h *EventHandler)
}

// Tracker records cancellable in-flight side effects so that shutdown can
// stop them. Untracking something that is not tracked is a no-op.
type Tracker interface {
	Track(c Cancellable)
	Untrack(c Cancellable)
}
