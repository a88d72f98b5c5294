package actions

import (
	"context"
	"slices"

	"github.com/vk/launchgo/internal/launch"
)

// Group executes an ordered list of child entities. With Scoped set it opens
// a fresh configuration scope before the first child and closes it after the
// whole subtree has finished, so inner SetConfiguration edits never leak out.
//
// Scope balance is enforced with paired marker entities spliced around the
// children: follow-up entities are always spliced directly after their
// producer, so everything a child generates runs before the closing marker.
type Group struct {
	base

	children []launch.Entity

	// Scoped opens a configuration scope around the children.
	Scoped bool
}

// NewGroup builds a group over the given children.
func NewGroup(scoped bool, children []launch.Entity, opts ...Option) *Group {
	return &Group{base: newBase(opts), children: slices.Clone(children), Scoped: scoped}
}

// Visit implements launch.Entity.
func (a *Group) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	if !a.Scoped {
		return slices.Clone(a.children), nil
	}
	out := make([]launch.Entity, 0, len(a.children)+2)
	out = append(out, &scopeMarker{owner: a, push: true})
	out = append(out, a.children...)
	out = append(out, &scopeMarker{owner: a, push: false})
	return out, nil
}

// SubEntities implements launch.Introspectable: the authored children, never
// the scope markers generated at execution time.
func (a *Group) SubEntities() []launch.Entity {
	return slices.Clone(a.children)
}

// scopeMarker is the internal entity pair realizing a group's scope. The
// owner field also keeps every marker a distinct identity for the service's
// once-per-node guard.
type scopeMarker struct {
	owner *Group
	push  bool
}

func (m *scopeMarker) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	if m.push {
		lc.PushScope()
	} else {
		lc.PopScope()
	}
	return nil, nil
}
