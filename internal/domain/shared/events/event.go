package events

import (
	"time"
)

// DomainEvent represents a domain event.
type DomainEvent interface {
	// GetAggregateID returns the ID of the aggregate that generated the event
	GetAggregateID() uint

	// GetEventType returns the type/name of the event
	GetEventType() string

	// GetOccurredAt returns when the event occurred
	GetOccurredAt() time.Time
}

// Hook is one post-commit callback. Hooks run after the authoritative state
// change has committed; they are individually fallible and must be treated as
// fire-and-forget by the caller.
type Hook interface {
	// Name identifies the hook in logs.
	Name() string

	// Handle processes a domain event.
	Handle(event DomainEvent) error
}

// HookFunc adapts a function to the Hook interface.
type HookFunc struct {
	HookName string
	Fn       func(event DomainEvent) error
}

func (h HookFunc) Name() string                   { return h.HookName }
func (h HookFunc) Handle(event DomainEvent) error { return h.Fn(event) }
