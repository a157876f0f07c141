package events

import (
	"fmt"
	"sync"

	"motordesk/internal/shared/logger"
)

// HookRunner invokes registered post-commit hooks for an event. Every hook is
// wrapped so that its failure (error or panic) is caught and logged without
// rolling back or blocking the caller: the primary state change has already
// committed by the time hooks run.
type HookRunner struct {
	mu     sync.RWMutex
	hooks  map[string][]Hook
	logger logger.Interface
}

// NewHookRunner creates an empty hook runner.
func NewHookRunner(log logger.Interface) *HookRunner {
	return &HookRunner{
		hooks:  make(map[string][]Hook),
		logger: log,
	}
}

// Register adds a hook for an event type. Hooks run in registration order.
func (r *HookRunner) Register(eventType string, hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[eventType] = append(r.hooks[eventType], hook)
}

// Dispatch runs all hooks registered for the event's type. It never returns
// an error: post-commit side effects cannot fail the primary operation.
func (r *HookRunner) Dispatch(event DomainEvent) {
	r.mu.RLock()
	hooks := r.hooks[event.GetEventType()]
	r.mu.RUnlock()

	for _, hook := range hooks {
		r.run(hook, event)
	}
}

func (r *HookRunner) run(hook Hook, event DomainEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorw("post-commit hook panicked",
				"hook", hook.Name(),
				"event_type", event.GetEventType(),
				"aggregate_id", event.GetAggregateID(),
				"panic", fmt.Sprintf("%v", rec),
			)
		}
	}()

	if err := hook.Handle(event); err != nil {
		r.logger.Errorw("post-commit hook failed",
			"hook", hook.Name(),
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
	}
}
