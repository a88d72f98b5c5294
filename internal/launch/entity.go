package launch

import "context"

// Entity is a single node in a launch description. Visiting an entity
// evaluates it against the running context and returns follow-up entities
// that the service executes immediately after it, in order.
type Entity interface {
	Visit(ctx context.Context, lc *Context) ([]Entity, error)
}

// Conditioned is implemented by entities that carry an optional execution
// guard. The service evaluates the guard before visiting; a nil condition
// always passes.
type Conditioned interface {
	Condition() Condition
}

// Introspectable is implemented by entities that statically contain other
// entities, such as groups and includes. SubEntities returns the authored
// children without executing anything. Entities generated dynamically at
// execution time are not part of the static tree and do not appear here.
type Introspectable interface {
	SubEntities() []Entity
}

// Cancellable is an in-flight side effect that shutdown must stop, such as a
// running process. Cancel blocks until the side effect has stopped or the
// context expires; implementations escalate to a forced stop on expiry.
type Cancellable interface {
	Cancel(ctx context.Context) error
}
