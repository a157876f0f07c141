package tenant

import (
	"errors"
	"time"

	vo "motordesk/internal/domain/tenant/valueobjects"
)

// Actors recorded in the triggeredBy column of the audit trail.
const (
	TriggeredBySystem  = "system"
	TriggeredBySweeper = "sweeper"
	TriggeredByBilling = "billing"
	TriggeredByAdmin   = "admin"
)

var ErrHistoryImmutable = errors.New("tenant status history is append-only")

// StatusHistory is one append-only audit row recording a subscription status
// transition. Rows are created exactly once per successful transition, in the
// same transaction as the status write, and are never mutated or deleted.
type StatusHistory struct {
	id          uint
	tenantID    uint
	oldStatus   vo.SubscriptionStatus
	newStatus   vo.SubscriptionStatus
	reason      string
	triggeredBy string
	referenceID string
	metadata    map[string]interface{}
	createdAt   time.Time
}

// NewStatusHistory creates the audit row for a transition.
func NewStatusHistory(tenantID uint, oldStatus, newStatus vo.SubscriptionStatus, reason, triggeredBy string) (*StatusHistory, error) {
	if tenantID == 0 {
		return nil, errors.New("tenant ID cannot be zero")
	}
	if reason == "" {
		return nil, errors.New("transition reason is required")
	}
	if triggeredBy == "" {
		triggeredBy = TriggeredBySystem
	}

	return &StatusHistory{
		tenantID:    tenantID,
		oldStatus:   oldStatus,
		newStatus:   newStatus,
		reason:      reason,
		triggeredBy: triggeredBy,
		metadata:    make(map[string]interface{}),
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructStatusHistory rebuilds an audit row from persistence.
func ReconstructStatusHistory(
	historyID, tenantID uint,
	oldStatus, newStatus vo.SubscriptionStatus,
	reason, triggeredBy, referenceID string,
	metadata map[string]interface{},
	createdAt time.Time,
) (*StatusHistory, error) {
	if historyID == 0 {
		return nil, errors.New("history ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, errors.New("tenant ID cannot be zero")
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &StatusHistory{
		id:          historyID,
		tenantID:    tenantID,
		oldStatus:   oldStatus,
		newStatus:   newStatus,
		reason:      reason,
		triggeredBy: triggeredBy,
		referenceID: referenceID,
		metadata:    metadata,
		createdAt:   createdAt,
	}, nil
}

// SetReferenceID links the row to an external document (e.g. an invoice).
func (h *StatusHistory) SetReferenceID(ref string) {
	h.referenceID = ref
}

// AddMetadata attaches supplementary context to the row before it is written.
func (h *StatusHistory) AddMetadata(key string, value interface{}) {
	if h.metadata == nil {
		h.metadata = make(map[string]interface{})
	}
	h.metadata[key] = value
}

func (h *StatusHistory) ID() uint                         { return h.id }
func (h *StatusHistory) TenantID() uint                   { return h.tenantID }
func (h *StatusHistory) OldStatus() vo.SubscriptionStatus { return h.oldStatus }
func (h *StatusHistory) NewStatus() vo.SubscriptionStatus { return h.newStatus }
func (h *StatusHistory) Reason() string                   { return h.reason }
func (h *StatusHistory) TriggeredBy() string              { return h.triggeredBy }
func (h *StatusHistory) ReferenceID() string              { return h.referenceID }
func (h *StatusHistory) CreatedAt() time.Time             { return h.createdAt }

func (h *StatusHistory) Metadata() map[string]interface{} {
	metadata := make(map[string]interface{}, len(h.metadata))
	for k, v := range h.metadata {
		metadata[k] = v
	}
	return metadata
}
