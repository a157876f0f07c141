package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/domain/dealership"
	"motordesk/internal/shared/logger"
)

func createTestVehicle(t *testing.T, repo dealership.VehicleRepository, tenantID uint, vin string) *dealership.Vehicle {
	t.Helper()
	v, err := dealership.NewVehicle(tenantID, vin, "Volkswagen", "Golf", 2021, 1_850_000, 42000)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tenantID, v))
	return v
}

func TestVehicleRepository_TenantScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db, logger.NewNop())
	ctx := context.Background()

	mine := createTestVehicle(t, repo, 1, "VIN-OWN-1")
	createTestVehicle(t, repo, 2, "VIN-OTHER-1")

	// Reads through another tenant's scope come back as not-found,
	// indistinguishable from absence.
	_, err := repo.GetBySID(ctx, 2, mine.SID())
	assert.Error(t, err)

	got, err := repo.GetBySID(ctx, 1, mine.SID())
	require.NoError(t, err)
	assert.Equal(t, mine.SID(), got.SID())

	listed, total, err := repo.List(ctx, 1, dealership.VehicleFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, mine.SID(), listed[0].SID())

	// Writes and deletes are scoped the same way.
	err = repo.Delete(ctx, 2, mine.SID())
	assert.Error(t, err)
	require.NoError(t, repo.Delete(ctx, 1, mine.SID()))
}

func TestVehicleRepository_CreateStampsTenantID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db, logger.NewNop())
	ctx := context.Background()

	// The entity claims tenant 9 but the caller-resolved scope is tenant 1:
	// the repository stamps the authoritative value.
	v, err := dealership.NewVehicle(9, "VIN-FORGED", "VW", "Golf", 2021, 100, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, 1, v))

	got, err := repo.GetBySID(ctx, 1, v.SID())
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.TenantID())
}

func TestVehicleRepository_CountByTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db, logger.NewNop())
	ctx := context.Background()

	createTestVehicle(t, repo, 1, "VIN-A")
	createTestVehicle(t, repo, 1, "VIN-B")
	createTestVehicle(t, repo, 2, "VIN-C")

	count, err := repo.CountByTenant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByTenant(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVehicleRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db, logger.NewNop())
	ctx := context.Background()

	v := createTestVehicle(t, repo, 1, "VIN-RES")
	require.NoError(t, v.Reserve())
	require.NoError(t, repo.Update(ctx, 1, v))
	createTestVehicle(t, repo, 1, "VIN-STOCK")

	reserved, total, err := repo.List(ctx, 1, dealership.VehicleFilter{Status: dealership.VehicleReserved})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reserved, 1)
	assert.Equal(t, "VIN-RES", reserved[0].VIN())
}

func TestVehicleRepository_UnscopedTransferPath(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db, logger.NewNop())
	ctx := context.Background()

	v := createTestVehicle(t, repo, 1, "VIN-XFER")
	require.NoError(t, v.BeginTransfer())
	require.NoError(t, repo.Update(ctx, 1, v))

	// Resolution reads across the boundary, reassigns ownership, writes back.
	loaded, err := repo.GetByIDUnscoped(ctx, v.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.CompleteTransfer(2))
	require.NoError(t, repo.UpdateUnscoped(ctx, loaded))

	_, err = repo.GetBySID(ctx, 1, v.SID())
	assert.Error(t, err, "source tenant no longer sees the vehicle")

	got, err := repo.GetBySID(ctx, 2, v.SID())
	require.NoError(t, err)
	assert.Equal(t, dealership.VehicleInStock, got.Status())
	assert.Equal(t, uint(2), got.TenantID())
}

func TestVehicleRepository_DeleteByTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db, logger.NewNop())
	ctx := context.Background()

	createTestVehicle(t, repo, 1, "VIN-1")
	createTestVehicle(t, repo, 1, "VIN-2")
	createTestVehicle(t, repo, 2, "VIN-3")

	deleted, err := repo.DeleteByTenant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := repo.CountByTenant(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
