package tenant

import (
	"fmt"
	"time"

	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/id"
)

// Tenant represents the tenant aggregate root: an isolated dealership
// account. Its subscriptionStatus and suspensionType are only ever mutated
// through Transition, never by direct field assignment, so that every change
// leaves an audit row behind.
type Tenant struct {
	id                  uint
	sid                 string
	name                string
	planID              *uint
	planTier            string
	status              vo.SubscriptionStatus
	suspensionType      vo.SuspensionType
	trialEndsAt         *time.Time
	subscriptionEndsAt  *time.Time
	scheduledDeletionAt *time.Time
	deletedAt           *time.Time
	version             int
	createdAt           time.Time
	updatedAt           time.Time
}

// NewTenant creates a tenant starting its trial. planTier is the legacy tier
// slug used until a direct plan FK is assigned.
func NewTenant(name, planTier string, trialEndsAt time.Time) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if planTier == "" {
		return nil, fmt.Errorf("plan tier is required")
	}

	sid, err := id.NewTenantSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant SID: %w", err)
	}

	now := time.Now().UTC()
	return &Tenant{
		sid:         sid,
		name:        name,
		planTier:    planTier,
		status:      vo.StatusTrial,
		trialEndsAt: &trialEndsAt,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewProvisionedTenant creates a tenant provisioned by an administrator with
// a concrete plan and prepaid period, skipping the trial.
func NewProvisionedTenant(name string, planID uint, subscriptionEndsAt time.Time) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}

	sid, err := id.NewTenantSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant SID: %w", err)
	}

	now := time.Now().UTC()
	return &Tenant{
		sid:                sid,
		name:               name,
		planID:             &planID,
		status:             vo.StatusActive,
		subscriptionEndsAt: &subscriptionEndsAt,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// TenantReconstructParams carries persistence state back into the aggregate.
type TenantReconstructParams struct {
	ID                  uint
	SID                 string
	Name                string
	PlanID              *uint
	PlanTier            string
	Status              vo.SubscriptionStatus
	SuspensionType      vo.SuspensionType
	TrialEndsAt         *time.Time
	SubscriptionEndsAt  *time.Time
	ScheduledDeletionAt *time.Time
	DeletedAt           *time.Time
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructTenant rebuilds a tenant from persistence.
func ReconstructTenant(p TenantReconstructParams) (*Tenant, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("tenant SID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.SuspensionType.IsValid() {
		return nil, fmt.Errorf("invalid suspension type: %s", p.SuspensionType)
	}

	return &Tenant{
		id:                  p.ID,
		sid:                 p.SID,
		name:                p.Name,
		planID:              p.PlanID,
		planTier:            p.PlanTier,
		status:              p.Status,
		suspensionType:      p.SuspensionType,
		trialEndsAt:         p.TrialEndsAt,
		subscriptionEndsAt:  p.SubscriptionEndsAt,
		scheduledDeletionAt: p.ScheduledDeletionAt,
		deletedAt:           p.DeletedAt,
		version:             p.Version,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}, nil
}

func (t *Tenant) ID() uint                          { return t.id }
func (t *Tenant) SID() string                       { return t.sid }
func (t *Tenant) Name() string                      { return t.name }
func (t *Tenant) PlanID() *uint                     { return t.planID }
func (t *Tenant) PlanTier() string                  { return t.planTier }
func (t *Tenant) Status() vo.SubscriptionStatus     { return t.status }
func (t *Tenant) SuspensionType() vo.SuspensionType { return t.suspensionType }
func (t *Tenant) TrialEndsAt() *time.Time           { return t.trialEndsAt }
func (t *Tenant) SubscriptionEndsAt() *time.Time    { return t.subscriptionEndsAt }
func (t *Tenant) ScheduledDeletionAt() *time.Time   { return t.scheduledDeletionAt }
func (t *Tenant) DeletedAt() *time.Time             { return t.deletedAt }
func (t *Tenant) Version() int                      { return t.version }
func (t *Tenant) CreatedAt() time.Time              { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time              { return t.updatedAt }

// SetID sets the tenant ID (only for persistence layer use)
func (t *Tenant) SetID(tenantID uint) error {
	if t.id != 0 {
		return fmt.Errorf("tenant ID is already set")
	}
	if tenantID == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	t.id = tenantID
	return nil
}

// AccessLevel derives the current access level from billing state.
func (t *Tenant) AccessLevel() vo.AccessLevel {
	return vo.DeriveAccessLevel(t.status, t.suspensionType)
}

// Transition moves the tenant to a new subscription status, enforcing the
// allowed-transition table. A self-transition is an idempotent no-op: it
// succeeds, changes nothing and reports changed=false so the caller appends
// no history row. suspensionType is applied only when entering suspended and
// cleared on every other target.
func (t *Tenant) Transition(to vo.SubscriptionStatus, suspension vo.SuspensionType) (changed bool, err error) {
	if to == t.status {
		return false, nil
	}

	if !t.status.CanTransitionTo(to) {
		return false, errors.NewIllegalTransitionError(t.status.String(), to.String())
	}
	if !suspension.IsValid() {
		return false, fmt.Errorf("invalid suspension type: %s", suspension)
	}

	t.status = to
	if to == vo.StatusSuspended {
		if suspension == vo.SuspensionNone {
			suspension = vo.SuspensionSoft
		}
		t.suspensionType = suspension
	} else {
		t.suspensionType = vo.SuspensionNone
	}

	t.touch()
	return true, nil
}

// ChangePlan assigns a direct plan FK, superseding the legacy tier slug.
func (t *Tenant) ChangePlan(planID uint) error {
	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if t.status.IsTerminal() {
		return fmt.Errorf("cannot change plan of a cancelled tenant")
	}
	if t.planID != nil && *t.planID == planID {
		return nil
	}
	t.planID = &planID
	t.touch()
	return nil
}

// ExtendSubscription moves the paid-through date forward (invoice approval).
func (t *Tenant) ExtendSubscription(endsAt time.Time) error {
	if t.subscriptionEndsAt != nil && endsAt.Before(*t.subscriptionEndsAt) {
		return fmt.Errorf("new subscription end must be after current end")
	}
	t.subscriptionEndsAt = &endsAt
	t.touch()
	return nil
}

// Expiry returns the moment the tenant's access lapses: the paid-through
// date when present, else the trial end.
func (t *Tenant) Expiry() *time.Time {
	if t.subscriptionEndsAt != nil {
		return t.subscriptionEndsAt
	}
	return t.trialEndsAt
}

// IsLapsed reports whether the trial or paid subscription has passed.
func (t *Tenant) IsLapsed(now time.Time) bool {
	exp := t.Expiry()
	return exp != nil && now.After(*exp)
}

// ScheduleDeletion stamps the future soft-delete date. Idempotent: a tenant
// already scheduled keeps its original date.
func (t *Tenant) ScheduleDeletion(at time.Time) {
	if t.scheduledDeletionAt != nil {
		return
	}
	t.scheduledDeletionAt = &at
	t.touch()
}

// ClearScheduledDeletion cancels a pending deletion (e.g. after payment).
func (t *Tenant) ClearScheduledDeletion() {
	if t.scheduledDeletionAt == nil {
		return
	}
	t.scheduledDeletionAt = nil
	t.touch()
}

// SoftDelete marks the tenant deleted. Idempotent.
func (t *Tenant) SoftDelete(now time.Time) {
	if t.deletedAt != nil {
		return
	}
	t.deletedAt = &now
	t.touch()
}

// IsDeleted reports whether the tenant has been soft-deleted.
func (t *Tenant) IsDeleted() bool {
	return t.deletedAt != nil
}

func (t *Tenant) touch() {
	t.updatedAt = time.Now().UTC()
	t.version++
}
