package actions

import (
	"context"
	"fmt"

	"github.com/vk/launchgo/internal/launch"
)

// Include splices another description into execution at the point of the
// include. The source label is pushed onto the context's include path while
// the included subtree runs, which is what turns a self-referential include
// into an include-cycle error instead of unbounded recursion.
type Include struct {
	base

	// Source identifies the included description (a file path for frontend
	// includes); it must be stable across repeated inclusion of the same
	// description for cycle detection to work.
	Source string

	// Description is the included tree when it is known at build time.
	Description *launch.Description

	// Load produces the description lazily at execution time. It is consulted
	// only when Description is nil; frontends use it so that files are read
	// when the include actually executes.
	Load func(ctx context.Context, lc *launch.Context) (*launch.Description, error)
}

// NewInclude builds an include of an already-constructed description.
func NewInclude(source string, desc *launch.Description, opts ...Option) *Include {
	return &Include{base: newBase(opts), Source: source, Description: desc}
}

// Visit implements launch.Entity.
func (a *Include) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	if err := lc.PushInclude(a.Source); err != nil {
		return nil, err
	}

	desc := a.Description
	if desc == nil && a.Load != nil {
		var err error
		desc, err = a.Load(ctx, lc)
		if err != nil {
			lc.PopInclude()
			return nil, fmt.Errorf("failed to load included description %q: %w", a.Source, err)
		}
	}
	if desc == nil {
		lc.PopInclude()
		return nil, fmt.Errorf("include %q has neither a description nor a loader", a.Source)
	}

	out := append(desc.Entities(), &includeDone{owner: a})
	return out, nil
}

// SubEntities implements launch.Introspectable. A lazily loaded include has
// no statically known children; that is the documented limitation of static
// introspection.
func (a *Include) SubEntities() []launch.Entity {
	if a.Description == nil {
		return nil
	}
	return a.Description.Entities()
}

// includeDone pops the include path once the included subtree has finished.
type includeDone struct {
	owner *Include
}

func (m *includeDone) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	lc.PopInclude()
	return nil, nil
}
