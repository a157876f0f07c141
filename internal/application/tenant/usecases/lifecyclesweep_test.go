package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"motordesk/internal/domain/shared/events"
	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/infrastructure/repository"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

type sweepFixture struct {
	tenantRepo  tenant.Repository
	historyRepo tenant.HistoryRepository
	txManager   *db.TransactionManager
	logger      logger.Interface
	transition  *TransitionTenantStatusUseCase
	suspend     *SuspendLapsedTenantsJob
	purge       *PurgeScheduledTenantsJob
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(
		&models.TenantModel{},
		&models.TenantStatusHistoryModel{},
	))

	log := logger.NewNop()
	tenantRepo := repository.NewTenantRepository(gormDB, log)
	historyRepo := repository.NewTenantStatusHistoryRepository(gormDB, log)
	txManager := db.NewTransactionManager(gormDB)
	hooks := events.NewHookRunner(log)

	transition := NewTransitionTenantStatusUseCase(tenantRepo, historyRepo, txManager, hooks, log)

	return &sweepFixture{
		tenantRepo:  tenantRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		logger:      log,
		transition:  transition,
		suspend:     NewSuspendLapsedTenantsJob(tenantRepo, transition, 7, 6, log),
		purge:       NewPurgeScheduledTenantsJob(tenantRepo, log),
	}
}

func (f *sweepFixture) createTenant(t *testing.T, name string, trialEnd time.Time) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant(name, "starter", trialEnd)
	require.NoError(t, err)
	require.NoError(t, f.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (f *sweepFixture) historyCount(t *testing.T, tenantID uint) int64 {
	t.Helper()
	_, total, err := f.historyRepo.ListByTenant(context.Background(), tenantID, 0, 100)
	require.NoError(t, err)
	return total
}

func TestSuspendLapsedTenantsJob_TrialToGrace(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	lapsed := f.createTenant(t, "Lapsed Motors", now.AddDate(0, 0, -1))
	fresh := f.createTenant(t, "Fresh Motors", now.AddDate(0, 0, 14))

	processed, err := f.suspend.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	got, err := f.tenantRepo.GetByID(ctx, lapsed.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusGrace, got.Status())
	assert.Equal(t, int64(1), f.historyCount(t, lapsed.ID()))

	got, err = f.tenantRepo.GetByID(ctx, fresh.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusTrial, got.Status())
}

func TestSuspendLapsedTenantsJob_GraceToSuspended(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Expired 10 days ago with a 7-day grace window: overdue for suspension.
	overdue := f.createTenant(t, "Overdue Motors", now.AddDate(0, 0, -10))
	_, err := f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: overdue.ID(), To: vo.StatusGrace, Reason: "test setup", TriggeredBy: tenant.TriggeredBySweeper,
	})
	require.NoError(t, err)

	// Expired 2 days ago: still inside the grace window, must stay in grace.
	inside := f.createTenant(t, "InWindow Motors", now.AddDate(0, 0, -2))
	_, err = f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: inside.ID(), To: vo.StatusGrace, Reason: "test setup", TriggeredBy: tenant.TriggeredBySweeper,
	})
	require.NoError(t, err)

	processed, err := f.suspend.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	got, err := f.tenantRepo.GetByID(ctx, overdue.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusSuspended, got.Status())
	assert.Equal(t, vo.SuspensionSoft, got.SuspensionType())
	require.NotNil(t, got.ScheduledDeletionAt(), "suspension schedules the deletion date")

	got, err = f.tenantRepo.GetByID(ctx, inside.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusGrace, got.Status())
	assert.Nil(t, got.ScheduledDeletionAt())
}

func TestSuspendLapsedTenantsJob_DoubleRunIsIdempotent(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	lapsed := f.createTenant(t, "Lapsed Motors", now.AddDate(0, 0, -1))

	processed, err := f.suspend.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	// The second run finds the tenant in grace, still inside the window, and
	// appends nothing.
	processed, err = f.suspend.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Equal(t, int64(1), f.historyCount(t, lapsed.ID()))
}

func TestSuspendLapsedTenantsJob_SuspendedLeavesSweepScope(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	overdue := f.createTenant(t, "Overdue Motors", now.AddDate(0, 0, -10))
	_, err := f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: overdue.ID(), To: vo.StatusGrace, Reason: "test setup", TriggeredBy: tenant.TriggeredBySweeper,
	})
	require.NoError(t, err)

	processed, err := f.suspend.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	// Suspended with a deletion scheduled: invisible to the next sweep.
	processed, err = f.suspend.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Equal(t, int64(2), f.historyCount(t, overdue.ID()))
}

func TestPurgeScheduledTenantsJob(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	due := f.createTenant(t, "Due Motors", now.AddDate(-1, 0, 0))
	due.ScheduleDeletion(now.AddDate(0, 0, -1))
	require.NoError(t, f.tenantRepo.Update(ctx, due))

	notYet := f.createTenant(t, "NotYet Motors", now.AddDate(-1, 0, 0))
	notYet.ScheduleDeletion(now.AddDate(0, 6, 0))
	require.NoError(t, f.tenantRepo.Update(ctx, notYet))

	processed, err := f.purge.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	_, err = f.tenantRepo.GetByID(ctx, due.ID())
	assert.Error(t, err, "purged tenant is invisible to default reads")

	// Re-run: the soft-deleted tenant never comes back from the listing.
	processed, err = f.purge.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, processed)
}

func TestTransitionTenantStatus_IllegalRollsBack(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tn := f.createTenant(t, "Strict Motors", now.AddDate(0, 0, 14))

	_, err := f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: tn.ID(), To: vo.StatusSuspended, Reason: "bad", TriggeredBy: "admin:usr_1",
	})
	require.Error(t, err, "trial cannot jump straight to suspended")

	got, err := f.tenantRepo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusTrial, got.Status())
	assert.Zero(t, f.historyCount(t, tn.ID()), "rejected transition writes no history")
}

func TestTransitionTenantStatus_SelfTransitionWritesNothing(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	tn := f.createTenant(t, "Idem Motors", time.Now().UTC().AddDate(0, 0, 14))

	result, err := f.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID: tn.ID(), To: vo.StatusTrial, Reason: "noop", TriggeredBy: "admin:usr_1",
	})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusTrial, result.Status())
	assert.Zero(t, f.historyCount(t, tn.ID()))
}
