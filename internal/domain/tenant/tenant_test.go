package tenant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/errors"
)

func newTestTenant(t *testing.T, status vo.SubscriptionStatus) *Tenant {
	t.Helper()

	trialEnd := time.Now().UTC().Add(14 * 24 * time.Hour)
	tn, err := ReconstructTenant(TenantReconstructParams{
		ID:          1,
		SID:         "tnt_test123456",
		Name:        "Test Motors",
		PlanTier:    "starter",
		Status:      status,
		TrialEndsAt: &trialEnd,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	return tn
}

func TestNewTenant(t *testing.T) {
	trialEnd := time.Now().UTC().Add(14 * 24 * time.Hour)

	tn, err := NewTenant("Sunrise Motors", "starter", trialEnd)
	require.NoError(t, err)
	require.NotNil(t, tn)

	assert.NotEmpty(t, tn.SID())
	assert.Equal(t, vo.StatusTrial, tn.Status())
	assert.Equal(t, vo.SuspensionNone, tn.SuspensionType())
	require.NotNil(t, tn.TrialEndsAt())
	assert.Nil(t, tn.SubscriptionEndsAt())
	assert.Equal(t, 1, tn.Version())
}

func TestNewTenant_Validation(t *testing.T) {
	trialEnd := time.Now().UTC().Add(24 * time.Hour)

	_, err := NewTenant("", "starter", trialEnd)
	assert.Error(t, err)

	_, err = NewTenant("Sunrise Motors", "", trialEnd)
	assert.Error(t, err)
}

func TestNewProvisionedTenant(t *testing.T) {
	endsAt := time.Now().UTC().AddDate(0, 12, 0)

	tn, err := NewProvisionedTenant("Fleet Corp", 3, endsAt)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusActive, tn.Status())
	require.NotNil(t, tn.PlanID())
	assert.Equal(t, uint(3), *tn.PlanID())
	assert.Nil(t, tn.TrialEndsAt())
	require.NotNil(t, tn.SubscriptionEndsAt())
}

func TestTenant_Transition_AllowedPaths(t *testing.T) {
	tests := []struct {
		name string
		from vo.SubscriptionStatus
		to   vo.SubscriptionStatus
	}{
		{"trial to active", vo.StatusTrial, vo.StatusActive},
		{"trial to grace", vo.StatusTrial, vo.StatusGrace},
		{"trial to cancelled", vo.StatusTrial, vo.StatusCancelled},
		{"active to grace", vo.StatusActive, vo.StatusGrace},
		{"active to suspended", vo.StatusActive, vo.StatusSuspended},
		{"active to cancelled", vo.StatusActive, vo.StatusCancelled},
		{"grace to active", vo.StatusGrace, vo.StatusActive},
		{"grace to suspended", vo.StatusGrace, vo.StatusSuspended},
		{"grace to cancelled", vo.StatusGrace, vo.StatusCancelled},
		{"suspended to active", vo.StatusSuspended, vo.StatusActive},
		{"suspended to cancelled", vo.StatusSuspended, vo.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn := newTestTenant(t, tt.from)
			versionBefore := tn.Version()

			changed, err := tn.Transition(tt.to, vo.SuspensionNone)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.to, tn.Status())
			assert.Equal(t, versionBefore+1, tn.Version())
		})
	}
}

func TestTenant_Transition_Illegal(t *testing.T) {
	tests := []struct {
		name string
		from vo.SubscriptionStatus
		to   vo.SubscriptionStatus
	}{
		{"trial to suspended", vo.StatusTrial, vo.StatusSuspended},
		{"active to trial", vo.StatusActive, vo.StatusTrial},
		{"suspended to grace", vo.StatusSuspended, vo.StatusGrace},
		{"suspended to trial", vo.StatusSuspended, vo.StatusTrial},
		{"cancelled to active", vo.StatusCancelled, vo.StatusActive},
		{"cancelled to trial", vo.StatusCancelled, vo.StatusTrial},
		{"cancelled to grace", vo.StatusCancelled, vo.StatusGrace},
		{"cancelled to suspended", vo.StatusCancelled, vo.StatusSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn := newTestTenant(t, tt.from)
			versionBefore := tn.Version()

			changed, err := tn.Transition(tt.to, vo.SuspensionNone)
			require.Error(t, err)
			assert.False(t, changed)
			assert.True(t, errors.HasCode(err, errors.CodeIllegalTransition))
			assert.Equal(t, tt.from, tn.Status(), "status must not change on rejection")
			assert.Equal(t, versionBefore, tn.Version(), "version must not bump on rejection")
		})
	}
}

func TestTenant_Transition_SelfIsNoOp(t *testing.T) {
	for _, status := range []vo.SubscriptionStatus{
		vo.StatusTrial, vo.StatusActive, vo.StatusGrace, vo.StatusSuspended, vo.StatusCancelled,
	} {
		t.Run(status.String(), func(t *testing.T) {
			tn := newTestTenant(t, status)
			versionBefore := tn.Version()

			changed, err := tn.Transition(status, vo.SuspensionNone)
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, versionBefore, tn.Version())
		})
	}
}

func TestTenant_Transition_SuspensionType(t *testing.T) {
	tn := newTestTenant(t, vo.StatusActive)

	changed, err := tn.Transition(vo.StatusSuspended, vo.SuspensionHard)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, vo.SuspensionHard, tn.SuspensionType())

	// Leaving suspended clears the suspension type.
	changed, err = tn.Transition(vo.StatusActive, vo.SuspensionNone)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, vo.SuspensionNone, tn.SuspensionType())
}

func TestTenant_Transition_SuspensionDefaultsToSoft(t *testing.T) {
	tn := newTestTenant(t, vo.StatusGrace)

	_, err := tn.Transition(vo.StatusSuspended, vo.SuspensionNone)
	require.NoError(t, err)
	assert.Equal(t, vo.SuspensionSoft, tn.SuspensionType())
}

func TestTenant_AccessLevel(t *testing.T) {
	tn := newTestTenant(t, vo.StatusTrial)
	assert.Equal(t, vo.AccessFull, tn.AccessLevel())

	tn = newTestTenant(t, vo.StatusGrace)
	assert.Equal(t, vo.AccessReadOnly, tn.AccessLevel())

	tn = newTestTenant(t, vo.StatusActive)
	_, err := tn.Transition(vo.StatusSuspended, vo.SuspensionSoft)
	require.NoError(t, err)
	assert.Equal(t, vo.AccessBillingOnly, tn.AccessLevel())

	tn = newTestTenant(t, vo.StatusActive)
	_, err = tn.Transition(vo.StatusSuspended, vo.SuspensionHard)
	require.NoError(t, err)
	assert.Equal(t, vo.AccessBlock, tn.AccessLevel())

	tn = newTestTenant(t, vo.StatusCancelled)
	assert.Equal(t, vo.AccessBlock, tn.AccessLevel())
}

func TestTenant_ExtendSubscription(t *testing.T) {
	tn := newTestTenant(t, vo.StatusActive)

	first := time.Now().UTC().AddDate(0, 1, 0)
	require.NoError(t, tn.ExtendSubscription(first))
	require.NotNil(t, tn.SubscriptionEndsAt())

	// Moving backwards is rejected.
	err := tn.ExtendSubscription(first.AddDate(0, -1, 0))
	assert.Error(t, err)
	assert.True(t, first.Equal(*tn.SubscriptionEndsAt()))

	later := first.AddDate(0, 2, 0)
	require.NoError(t, tn.ExtendSubscription(later))
	assert.True(t, later.Equal(*tn.SubscriptionEndsAt()))
}

func TestTenant_Expiry(t *testing.T) {
	tn := newTestTenant(t, vo.StatusTrial)
	require.NotNil(t, tn.Expiry())
	assert.True(t, tn.Expiry().Equal(*tn.TrialEndsAt()), "falls back to trial end")

	endsAt := time.Now().UTC().AddDate(0, 3, 0)
	require.NoError(t, tn.ExtendSubscription(endsAt))
	assert.True(t, tn.Expiry().Equal(endsAt), "paid-through date wins")
}

func TestTenant_IsLapsed(t *testing.T) {
	tn := newTestTenant(t, vo.StatusTrial)
	now := time.Now().UTC()

	assert.False(t, tn.IsLapsed(now))
	assert.True(t, tn.IsLapsed(now.AddDate(0, 0, 15)))
}

func TestTenant_ScheduleDeletion_Idempotent(t *testing.T) {
	tn := newTestTenant(t, vo.StatusSuspended)

	first := time.Now().UTC().AddDate(0, 6, 0)
	tn.ScheduleDeletion(first)
	require.NotNil(t, tn.ScheduledDeletionAt())

	// A second schedule keeps the original date.
	tn.ScheduleDeletion(first.AddDate(0, 6, 0))
	assert.True(t, first.Equal(*tn.ScheduledDeletionAt()))

	tn.ClearScheduledDeletion()
	assert.Nil(t, tn.ScheduledDeletionAt())
}

func TestTenant_SoftDelete_Idempotent(t *testing.T) {
	tn := newTestTenant(t, vo.StatusCancelled)

	now := time.Now().UTC()
	tn.SoftDelete(now)
	require.True(t, tn.IsDeleted())
	first := *tn.DeletedAt()

	tn.SoftDelete(now.Add(time.Hour))
	assert.True(t, first.Equal(*tn.DeletedAt()), "second soft delete keeps the original timestamp")
}

func TestTenant_ChangePlan(t *testing.T) {
	tn := newTestTenant(t, vo.StatusActive)

	require.NoError(t, tn.ChangePlan(7))
	require.NotNil(t, tn.PlanID())
	assert.Equal(t, uint(7), *tn.PlanID())

	assert.Error(t, tn.ChangePlan(0))

	cancelled := newTestTenant(t, vo.StatusCancelled)
	assert.Error(t, cancelled.ChangePlan(7))
}
