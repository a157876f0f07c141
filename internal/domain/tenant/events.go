package tenant

import (
	"time"

	"motordesk/internal/domain/shared/events"
	vo "motordesk/internal/domain/tenant/valueobjects"
)

const (
	EventTypeStatusChanged = "tenant.status_changed"
	EventTypeDeleted       = "tenant.deleted"
)

// StatusChangedEvent is published after a status transition commits. Handlers
// run as post-commit hooks: individually fallible, their failures are logged
// and never roll back or block the transition.
type StatusChangedEvent struct {
	TenantID    uint
	TenantSID   string
	OldStatus   vo.SubscriptionStatus
	NewStatus   vo.SubscriptionStatus
	Suspension  vo.SuspensionType
	Reason      string
	TriggeredBy string
	occurredAt  time.Time
}

// NewStatusChangedEvent creates the post-commit event for a transition.
func NewStatusChangedEvent(t *Tenant, oldStatus vo.SubscriptionStatus, reason, triggeredBy string) *StatusChangedEvent {
	return &StatusChangedEvent{
		TenantID:    t.ID(),
		TenantSID:   t.SID(),
		OldStatus:   oldStatus,
		NewStatus:   t.Status(),
		Suspension:  t.SuspensionType(),
		Reason:      reason,
		TriggeredBy: triggeredBy,
		occurredAt:  time.Now().UTC(),
	}
}

func (e *StatusChangedEvent) GetEventType() string     { return EventTypeStatusChanged }
func (e *StatusChangedEvent) GetOccurredAt() time.Time { return e.occurredAt }
func (e *StatusChangedEvent) GetAggregateID() uint     { return e.TenantID }

var _ events.DomainEvent = (*StatusChangedEvent)(nil)
