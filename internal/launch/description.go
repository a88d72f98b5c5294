package launch

import (
	"context"
	"slices"
)

// Description is a user-authored tree of entities. It is immutable once
// handed to a service; only configuration edits performed by its actions
// mutate state during execution, and those live on the Context.
type Description struct {
	entities []Entity
}

// NewDescription builds a description from top-level entities in execution
// order.
func NewDescription(entities ...Entity) *Description {
	return &Description{entities: slices.Clone(entities)}
}

// Entities returns the authored top-level entities for static introspection.
// Follow-up entities generated at execution time are deliberately not part
// of this view.
func (d *Description) Entities() []Entity {
	return slices.Clone(d.entities)
}

// Visit makes a description usable anywhere an entity is, e.g. as the body
// of an include. It performs no side effect of its own and returns its
// authored entities as follow-ups.
func (d *Description) Visit(ctx context.Context, lc *Context) ([]Entity, error) {
	return d.Entities(), nil
}

// SubEntities implements Introspectable.
func (d *Description) SubEntities() []Entity {
	return d.Entities()
}
