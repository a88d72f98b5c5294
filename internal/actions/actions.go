// Package actions provides the built-in action types: schedulable units of
// intent with an optional condition guard. Every action implements
// launch.Entity; its side effect runs at most once, enforced by the service
// keyed on node identity.
package actions

import "github.com/vk/launchgo/internal/launch"

// base carries the optional condition guard shared by every action. The
// service evaluates it before visiting; actions never check it themselves.
type base struct {
	cond launch.Condition
}

// Condition implements launch.Conditioned.
func (b *base) Condition() launch.Condition { return b.cond }

// Option configures an action at construction time.
type Option func(*base)

// WithCondition attaches an execution guard to an action.
func WithCondition(cond launch.Condition) Option {
	return func(b *base) {
		b.cond = cond
	}
}

func newBase(opts []Option) base {
	var b base
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
