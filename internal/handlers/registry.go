// Package handlers implements the event-handler registry and its dispatch
// pass. Registration order is preserved, dispatch snapshots the registered
// set before invoking any reaction, and unregistering an absent handler is a
// no-op.
package handlers

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/launch"
)

// Registry holds the registered event handlers for one service instance.
// It is safe for concurrent use; reactions themselves always run on the
// service's cooperative loop.
type Registry struct {
	mu       sync.Mutex
	handlers []*launch.EventHandler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a handler. Registering the same handler twice is a no-op.
func (r *Registry) Register(h *launch.EventHandler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.handlers, h) {
		return
	}
	r.handlers = append(r.handlers, h)
}

// Unregister removes a handler by identity. Removing an absent handler is a
// no-op, not an error.
func (r *Registry) Unregister(h *launch.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := slices.Index(r.handlers, h); i >= 0 {
		r.handlers = slices.Delete(r.handlers, i, i+1)
	}
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// snapshot copies the current handler list. Dispatch works on the snapshot so
// handlers registered during the pass do not also process the same event.
func (r *Registry) snapshot() []*launch.EventHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.handlers)
}

// DispatchResult aggregates the output of one event's dispatch pass.
type DispatchResult struct {
	Entities []launch.Entity
	Events   []launch.Event

	// Matched counts the handlers whose matcher accepted the event,
	// disabled handlers excluded.
	Matched int
}

// Dispatch delivers one event: it evaluates every snapshotted handler's
// matcher and invokes matched reactions in registration order. An error in
// one reaction does not stop the others; all errors of the pass are joined
// and returned together with the partial result.
func (r *Registry) Dispatch(ctx context.Context, lc *launch.Context, ev launch.Event) (*DispatchResult, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Dispatching event.", "kind", ev.Kind())

	result := &DispatchResult{}
	var errs []error
	for _, h := range r.snapshot() {
		if h.Disabled || h.Matcher == nil || !h.Matcher(ev) {
			continue
		}
		result.Matched++
		if h.React == nil {
			continue
		}
		entities, followUps, err := h.React(ctx, lc, ev)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Entities = append(result.Entities, entities...)
		result.Events = append(result.Events, followUps...)
	}

	if result.Matched == 0 {
		// An event nobody wants is silently dropped.
		logger.Debug("Event matched no handlers.", "kind", ev.Kind())
	}
	return result, errors.Join(errs...)
}
