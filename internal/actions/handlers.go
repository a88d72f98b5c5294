package actions

import (
	"context"

	"github.com/vk/launchgo/internal/launch"
)

// RegisterEventHandler registers a handler with the service when executed.
type RegisterEventHandler struct {
	base

	Handler *launch.EventHandler
}

// NewRegisterEventHandler builds the registration action.
func NewRegisterEventHandler(h *launch.EventHandler, opts ...Option) *RegisterEventHandler {
	return &RegisterEventHandler{base: newBase(opts), Handler: h}
}

// Visit implements launch.Entity.
func (a *RegisterEventHandler) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	lc.Handlers.Register(a.Handler)
	return nil, nil
}

// UnregisterEventHandler removes a handler by identity when executed.
// Removing a handler that was never registered is a no-op.
type UnregisterEventHandler struct {
	base

	Handler *launch.EventHandler
}

// NewUnregisterEventHandler builds the removal action.
func NewUnregisterEventHandler(h *launch.EventHandler, opts ...Option) *UnregisterEventHandler {
	return &UnregisterEventHandler{base: newBase(opts), Handler: h}
}

// Visit implements launch.Entity.
func (a *UnregisterEventHandler) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	lc.Handlers.Unregister(a.Handler)
	return nil, nil
}

// EmitEvent pushes an event onto the service's event queue when executed.
type EmitEvent struct {
	base

	Event launch.Event
}

// NewEmitEvent builds the emit action.
func NewEmitEvent(ev launch.Event, opts ...Option) *EmitEvent {
	return &EmitEvent{base: newBase(opts), Event: ev}
}

// Visit implements launch.Entity.
func (a *EmitEvent) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	lc.Events.EmitEvent(a.Event)
	return nil, nil
}
