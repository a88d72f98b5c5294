package actions

import (
	"context"

	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/launch"
)

// LogInfo resolves its message substitutions and writes them through the
// service's logger.
type LogInfo struct {
	base

	Message []launch.Substitution
}

// NewLogInfo builds a logging action.
func NewLogInfo(message []launch.Substitution, opts ...Option) *LogInfo {
	return &LogInfo{base: newBase(opts), Message: message}
}

// Visit implements launch.Entity.
func (a *LogInfo) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	msg, err := launch.Resolve(lc, a.Message)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info(msg)
	return nil, nil
}

// Shutdown is the deliberate fatal: executing it surfaces a
// launch.ShutdownError carrying the resolved reason, which stops the service
// immediately and is reported by Run. The typed error is what distinguishes
// an intentional termination from an internal defect.
type Shutdown struct {
	base

	Reason []launch.Substitution
}

// NewShutdown builds a shutdown action.
func NewShutdown(reason []launch.Substitution, opts ...Option) *Shutdown {
	return &Shutdown{base: newBase(opts), Reason: reason}
}

// Visit implements launch.Entity.
func (a *Shutdown) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	reason, err := launch.Resolve(lc, a.Reason)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "shutdown action executed"
	}
	return nil, &launch.ShutdownError{Reason: reason}
}

// OpaqueFunction wraps an arbitrary user function as an action. It is the
// sugar mechanism for higher-level actions: the function may return follow-up
// entities which are spliced immediately after it.
type OpaqueFunction struct {
	base

	Fn func(ctx context.Context, lc *launch.Context) ([]launch.Entity, error)
}

// NewOpaqueFunction wraps fn as an action.
func NewOpaqueFunction(fn func(ctx context.Context, lc *launch.Context) ([]launch.Entity, error), opts ...Option) *OpaqueFunction {
	return &OpaqueFunction{base: newBase(opts), Fn: fn}
}

// Visit implements launch.Entity.
func (a *OpaqueFunction) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	if a.Fn == nil {
		return nil, nil
	}
	return a.Fn(ctx, lc)
}
