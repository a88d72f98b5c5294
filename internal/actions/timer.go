package actions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
)

// Timer waits in the background and then enqueues its entities. It is the
// canonical shape for long-running work: the delay happens off-loop in a
// goroutine, and only the resulting TimerExpired event re-enters the
// cooperative loop.
//
// A pending timer is tracked as a cancellable side effect, so shutdown stops
// it and idle detection waits for it.
type Timer struct {
	base

	After    time.Duration
	entities []launch.Entity

	id       string
	stop     chan struct{}
	stopOnce sync.Once
}

// NewTimer builds a timer that enqueues the given entities once the delay
// has elapsed.
func NewTimer(after time.Duration, entities []launch.Entity, opts ...Option) *Timer {
	return &Timer{
		base:     newBase(opts),
		After:    after,
		entities: slices.Clone(entities),
		id:       uuid.NewString(),
		stop:     make(chan struct{}),
	}
}

// Visit implements launch.Entity. The spawned goroutine ends when the timer
// fires, the timer is cancelled, or the loop context ends at shutdown.
func (a *Timer) Visit(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
	var handler *launch.EventHandler
	handler = &launch.EventHandler{
		Matcher: func(ev launch.Event) bool {
			expired, ok := ev.(events.TimerExpired)
			return ok && expired.TimerID == a.id
		},
		React: func(ctx context.Context, lc *launch.Context, ev launch.Event) ([]launch.Entity, []launch.Event, error) {
			lc.Handlers.Unregister(handler)
			lc.Tracker.Untrack(a)
			return slices.Clone(a.entities), nil, nil
		},
	}
	lc.Handlers.Register(handler)
	lc.Tracker.Track(a)

	sink := lc.Events
	go func() {
		timer := time.NewTimer(a.After)
		defer timer.Stop()
		select {
		case <-timer.C:
			sink.EmitEvent(events.TimerExpired{TimerID: a.id})
		case <-a.stop:
		case <-ctx.Done():
		}
	}()
	return nil, nil
}

// Cancel implements launch.Cancellable: a cancelled timer never fires.
func (a *Timer) Cancel(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })
	return nil
}

// SubEntities implements launch.Introspectable: the entities authored to run
// on expiry.
func (a *Timer) SubEntities() []launch.Entity {
	return slices.Clone(a.entities)
}
