package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/errors"
)

func (f *sweepFixture) renewUseCase() *RenewSubscriptionUseCase {
	return NewRenewSubscriptionUseCase(f.tenantRepo, f.transition, f.txManager, f.logger)
}

func TestRenewSubscription_ReactivatesGraceTenant(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tn := f.createTenant(t, "Renew Motors", now.AddDate(0, 0, -1))
	_, err := f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: tn.ID(), To: vo.StatusGrace, Reason: "lapsed", TriggeredBy: tenant.TriggeredBySweeper,
	})
	require.NoError(t, err)

	endsAt := now.AddDate(0, 1, 0)
	result, err := f.renewUseCase().Execute(ctx, RenewSubscriptionCommand{
		TenantID: tn.ID(), EndsAt: endsAt, ReferenceID: "inv_1",
	})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, result.Status())

	got, err := f.tenantRepo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	require.NotNil(t, got.SubscriptionEndsAt())
	assert.WithinDuration(t, endsAt, *got.SubscriptionEndsAt(), time.Second)
	assert.Equal(t, int64(2), f.historyCount(t, tn.ID()))
}

func TestRenewSubscription_CancelledTenantKeepsNothing(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tn := f.createTenant(t, "Gone Motors", now.AddDate(0, 0, -1))
	_, err := f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: tn.ID(), To: vo.StatusCancelled, Reason: "churned", TriggeredBy: "admin:usr_1",
	})
	require.NoError(t, err)
	tn, err = f.tenantRepo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	tn.ScheduleDeletion(now.AddDate(0, 6, 0))
	require.NoError(t, f.tenantRepo.Update(ctx, tn))

	_, err = f.renewUseCase().Execute(ctx, RenewSubscriptionCommand{
		TenantID: tn.ID(), EndsAt: now.AddDate(0, 1, 0),
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeIllegalTransition))

	// The failed reactivation rolls back the extension and keeps the
	// deletion schedule.
	got, err := f.tenantRepo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, got.Status())
	assert.Nil(t, got.SubscriptionEndsAt())
	assert.NotNil(t, got.ScheduledDeletionAt())
}
