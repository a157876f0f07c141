package tenant

import (
	"context"
	"time"
)

// Repository is the persistence port for the tenant aggregate. Status
// mutations must go through the transition use case, which calls Update
// inside a transaction together with HistoryRepository.Append.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, tenantID uint) (*Tenant, error)
	GetBySID(ctx context.Context, sid string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context, offset, limit int) ([]*Tenant, int64, error)

	// ListLapsed returns non-deleted tenants with no scheduled deletion whose
	// trial or paid subscription lapsed before now. Used by sweep phase one;
	// the scheduled_deletion_at IS NULL precondition makes re-runs no-ops.
	ListLapsed(ctx context.Context, now time.Time, limit int) ([]*Tenant, error)

	// ListPastScheduledDeletion returns non-deleted tenants whose scheduled
	// deletion date has passed. Used by sweep phase two; the deleted_at IS
	// NULL precondition makes re-runs no-ops.
	ListPastScheduledDeletion(ctx context.Context, now time.Time, limit int) ([]*Tenant, error)

	// HardDelete removes the tenant row and cascades to all owned entities.
	// Only reachable through the explicit administrator action.
	HardDelete(ctx context.Context, tenantID uint) error
}

// HistoryRepository is the persistence port for the append-only status audit
// trail.
type HistoryRepository interface {
	Append(ctx context.Context, h *StatusHistory) error
	ListByTenant(ctx context.Context, tenantID uint, offset, limit int) ([]*StatusHistory, int64, error)
}
