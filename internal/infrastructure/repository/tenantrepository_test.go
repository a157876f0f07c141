package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.TenantModel{},
		&models.TenantStatusHistoryModel{},
		&models.PlanModel{},
		&models.UserModel{},
		&models.BranchModel{},
		&models.VehicleModel{},
		&models.CustomerModel{},
		&models.StockTransferModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestTenant(t *testing.T, repo tenant.Repository, name string, trialEnd time.Time) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant(name, "starter", trialEnd)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tn))
	return tn
}

func TestTenantRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()

	trialEnd := time.Now().UTC().AddDate(0, 0, 14)
	tn := createTestTenant(t, repo, "Sunrise Motors", trialEnd)
	assert.NotZero(t, tn.ID())

	byID, err := repo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, tn.SID(), byID.SID())
	assert.Equal(t, vo.StatusTrial, byID.Status())

	bySID, err := repo.GetBySID(ctx, tn.SID())
	require.NoError(t, err)
	assert.Equal(t, tn.ID(), bySID.ID())

	_, err = repo.GetBySID(ctx, "tnt_nosuch")
	assert.Error(t, err)
}

func TestTenantRepository_Update_OptimisticLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()

	tn := createTestTenant(t, repo, "Lock Motors", time.Now().UTC().AddDate(0, 0, 14))

	changed, err := tn.Transition(vo.StatusActive, vo.SuspensionNone)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, repo.Update(ctx, tn))

	got, err := repo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, got.Status())
	assert.Equal(t, tn.Version(), got.Version())

	// A stale writer with the same version loses.
	err = repo.Update(ctx, tn)
	require.Error(t, err)
}

func TestTenantRepository_ListLapsed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	lapsed := createTestTenant(t, repo, "Lapsed Motors", now.AddDate(0, 0, -1))
	createTestTenant(t, repo, "Fresh Motors", now.AddDate(0, 0, 14))

	cancelled := createTestTenant(t, repo, "Cancelled Motors", now.AddDate(0, 0, -1))
	_, err := cancelled.Transition(vo.StatusCancelled, vo.SuspensionNone)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, cancelled))

	scheduled := createTestTenant(t, repo, "Scheduled Motors", now.AddDate(0, 0, -1))
	scheduled.ScheduleDeletion(now.AddDate(0, 6, 0))
	require.NoError(t, repo.Update(ctx, scheduled))

	got, err := repo.ListLapsed(ctx, now, 100)
	require.NoError(t, err)
	require.Len(t, got, 1, "only the lapsed, unscheduled, non-terminal tenant qualifies")
	assert.Equal(t, lapsed.ID(), got[0].ID())
}

func TestTenantRepository_ListLapsed_PaidOverridesTrial(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	// Trial already lapsed, but a paid period extends into the future: the
	// COALESCE on subscription_ends_at must keep this tenant out.
	paid := createTestTenant(t, repo, "Paid Motors", now.AddDate(0, 0, -5))
	_, err := paid.Transition(vo.StatusActive, vo.SuspensionNone)
	require.NoError(t, err)
	require.NoError(t, paid.ExtendSubscription(now.AddDate(0, 1, 0)))
	require.NoError(t, repo.Update(ctx, paid))

	got, err := repo.ListLapsed(ctx, now, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTenantRepository_ListPastScheduledDeletion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	due := createTestTenant(t, repo, "Due Motors", now.AddDate(0, 0, -300))
	due.ScheduleDeletion(now.AddDate(0, 0, -1))
	require.NoError(t, repo.Update(ctx, due))

	notYet := createTestTenant(t, repo, "NotYet Motors", now.AddDate(0, 0, -300))
	notYet.ScheduleDeletion(now.AddDate(0, 6, 0))
	require.NoError(t, repo.Update(ctx, notYet))

	got, err := repo.ListPastScheduledDeletion(ctx, now, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID(), got[0].ID())
}

func TestTenantRepository_SoftDeleteHidesTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	tn := createTestTenant(t, repo, "Gone Motors", now.AddDate(0, 0, -300))
	tn.SoftDelete(now)
	require.NoError(t, repo.Update(ctx, tn))

	_, err := repo.GetBySID(ctx, tn.SID())
	assert.Error(t, err, "soft-deleted tenants are invisible to default reads")

	got, err := repo.ListPastScheduledDeletion(ctx, now.Add(time.Hour), 100)
	require.NoError(t, err)
	assert.Empty(t, got, "soft-deleted tenants never re-enter the purge phase")
}

func TestTenantRepository_HardDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()

	tn := createTestTenant(t, repo, "Purge Motors", time.Now().UTC().AddDate(0, 0, 14))

	require.NoError(t, repo.HardDelete(ctx, tn.ID()))

	_, err := repo.GetByID(ctx, tn.ID())
	assert.Error(t, err)

	err = repo.HardDelete(ctx, tn.ID())
	assert.Error(t, err, "second hard delete finds nothing")
}

func TestTenantRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewNop())
	ctx := context.Background()

	for _, name := range []string{"A Motors", "B Motors", "C Motors"} {
		createTestTenant(t, repo, name, time.Now().UTC().AddDate(0, 0, 14))
	}

	got, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, got, 2)
}
