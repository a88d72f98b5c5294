package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
)

// maxCleanupPasses bounds the work done for cleanup reactions during
// shutdown, so a handler feeding itself entities cannot keep the service
// alive forever.
const maxCleanupPasses = 1000

// Run starts the cooperative loop and blocks until the service has stopped.
// It returns the error that stopped the loop, or nil for a clean shutdown.
// Run may be called exactly once, and ctx must carry a logger attached with
// ctxlog.WithLogger.
func (s *Service) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return fmt.Errorf("launch service run called in state %s, want %s", s.state, Idle)
	}
	s.state = Running
	s.mu.Unlock()

	// The loop context ends when Run returns; background helpers such as
	// timers hang off it.
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A cancelled caller context must wake the condition variable, so it is
	// translated into a shutdown request.
	go func() {
		<-loopCtx.Done()
		s.Shutdown("context cancelled")
	}()

	logger.Info("🚀 Launch service started.")
	cause := s.loop(loopCtx)
	err := s.stop(loopCtx, cause)

	// A deliberate shutdown stopped the loop on purpose; it is a clean stop,
	// not a failure.
	var shutdownErr *launch.ShutdownError
	if errors.As(err, &shutdownErr) {
		return nil
	}
	return err
}

// loop drains the queues to a local fixed point, then blocks awaiting an
// include, an external event, or a shutdown request. It returns the error
// that should stop the service, or nil on a requested shutdown.
func (s *Service) loop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var queue []launch.Entity
	var eventQueue []launch.Event

	for {
		s.mu.Lock()
		for len(queue) == 0 && len(eventQueue) == 0 &&
			len(s.inboxEntities) == 0 && len(s.inboxEvents) == 0 && !s.shutdownRequested {
			if s.exitWhenIdle && len(s.tracked) == 0 {
				s.shutdownRequested = true
				s.shutdownReason = "nothing left to do"
				break
			}
			logger.Debug("Loop idle, awaiting stimulus.")
			s.cond.Wait()
		}
		queue = append(queue, s.inboxEntities...)
		s.inboxEntities = nil
		eventQueue = append(eventQueue, s.inboxEvents...)
		s.inboxEvents = nil
		stop := s.shutdownRequested
		s.mu.Unlock()

		if stop {
			return nil
		}

		// Events first: everything emitted by the previous visit is
		// dispatched before the next entity executes.
		if len(eventQueue) > 0 {
			ev := eventQueue[0]
			eventQueue = eventQueue[1:]
			result, err := s.registry.Dispatch(ctx, s.lc, ev)
			queue = append(queue, result.Entities...)
			eventQueue = append(eventQueue, result.Events...)
			if err != nil {
				if ferr := s.handleFailure(ctx, fmt.Sprintf("handlers for %q", ev.Kind()), err, &queue, &eventQueue); ferr != nil {
					return ferr
				}
			}
			continue
		}

		entity := queue[0]
		queue = queue[1:]
		followUps, err := s.visitEntity(ctx, entity)
		if err != nil {
			// The failed entity's follow-ups are dropped: the error aborts
			// its subtree for this pass.
			if ferr := s.handleFailure(ctx, entityName(entity), err, &queue, &eventQueue); ferr != nil {
				return ferr
			}
			continue
		}
		// Follow-ups splice in directly after their producer.
		queue = append(followUps, queue...)
	}
}

// visitEntity gates an entity on its condition and the once-per-identity
// guard, then visits it.
func (s *Service) visitEntity(ctx context.Context, entity launch.Entity) ([]launch.Entity, error) {
	logger := ctxlog.FromContext(ctx)

	if conditioned, ok := entity.(launch.Conditioned); ok {
		if cond := conditioned.Condition(); cond != nil {
			pass, err := cond.Evaluate(s.lc)
			if err != nil {
				return nil, err
			}
			if !pass {
				logger.Debug("Condition gated entity, skipping.", "entity", entityName(entity))
				return nil, nil
			}
		}
	}

	if s.executed[entity] {
		// Reachable through more than one include path; the side effect
		// already ran.
		logger.Debug("Entity already executed, skipping.", "entity", entityName(entity))
		return nil, nil
	}
	s.executed[entity] = true

	logger.Debug("Visiting entity.", "entity", entityName(entity))
	return entity.Visit(ctx, s.lc)
}

// handleFailure implements the error propagation policy: a deliberate
// shutdown error always stops the loop; anything else becomes an
// action-failed event, and only if no handler matches it does the loop stop
// and report the failure (fail-fast).
func (s *Service) handleFailure(ctx context.Context, source string, cause error, queue *[]launch.Entity, eventQueue *[]launch.Event) error {
	logger := ctxlog.FromContext(ctx)

	var shutdownErr *launch.ShutdownError
	if errors.As(cause, &shutdownErr) {
		s.Shutdown(shutdownErr.Reason)
		return cause
	}

	wrapped := &launch.ActionError{Action: source, Err: cause}
	logger.Error("Entity execution failed.", "source", source, "error", cause)

	result, derr := s.registry.Dispatch(ctx, s.lc, events.ActionFailed{Action: source, Err: wrapped})
	if derr != nil {
		return errors.Join(wrapped, derr)
	}
	if result.Matched == 0 {
		return wrapped
	}
	// A handler claimed the failure and decides how to continue; its output
	// is queued like any other reaction's.
	logger.Warn("Failure claimed by a handler, continuing.", "source", source)
	*queue = append(*queue, result.Entities...)
	*eventQueue = append(*eventQueue, result.Events...)
	return nil
}

// stop runs the shutdown sequence: cancel in-flight side effects with the
// two-phase grace period, run cleanup reactions, then transition to Stopped.
func (s *Service) stop(ctx context.Context, cause error) error {
	s.mu.Lock()
	s.state = ShuttingDown
	reason := s.shutdownReason
	s.mu.Unlock()
	if reason == "" && cause != nil {
		reason = cause.Error()
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("Shutting down.", "reason", reason)

	s.cancelTracked(ctx, logger)

	// Cleanup reactions: dispatch the shutdown event and drain what it
	// produces, plus any late inbox events such as the exits of the
	// processes just cancelled.
	result, err := s.registry.Dispatch(ctx, s.lc, events.Shutdown{Reason: reason})
	if err != nil {
		logger.Error("Cleanup reaction failed.", "error", err)
	}
	queue := result.Entities
	eventQueue := result.Events

	for pass := 0; pass < maxCleanupPasses; pass++ {
		s.mu.Lock()
		eventQueue = append(eventQueue, s.inboxEvents...)
		s.inboxEvents = nil
		s.mu.Unlock()

		if len(eventQueue) > 0 {
			ev := eventQueue[0]
			eventQueue = eventQueue[1:]
			res, err := s.registry.Dispatch(ctx, s.lc, ev)
			if err != nil {
				logger.Error("Cleanup reaction failed.", "error", err)
			}
			queue = append(queue, res.Entities...)
			eventQueue = append(eventQueue, res.Events...)
			continue
		}
		if len(queue) == 0 {
			break
		}
		entity := queue[0]
		queue = queue[1:]
		followUps, err := s.visitEntity(ctx, entity)
		if err != nil {
			logger.Error("Cleanup entity failed.", "entity", entityName(entity), "error", err)
			continue
		}
		queue = append(followUps, queue...)
	}

	// Cleanup reactions may have started cancellable work of their own; give
	// it the same two-phase stop so nothing outlives the service.
	s.cancelTracked(ctx, logger)

	s.mu.Lock()
	s.state = Stopped
	s.cond.Broadcast()
	s.mu.Unlock()

	logger.Info("✅ Launch service stopped.")
	return cause
}

// cancelTracked runs the two-phase stop over the currently tracked side
// effects. Cancel gets an uncancelled context so the grace period holds even
// when the caller's context is already done.
func (s *Service) cancelTracked(ctx context.Context, logger *slog.Logger) {
	for _, c := range s.trackedSnapshot() {
		cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
		if err := c.Cancel(cancelCtx); err != nil {
			logger.Error("Failed to cancel in-flight side effect.", "error", err)
		}
		cancel()
	}
}

func entityName(entity launch.Entity) string {
	return fmt.Sprintf("%T", entity)
}
