package dealership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVehicle(t *testing.T) *Vehicle {
	t.Helper()
	v, err := NewVehicle(1, "wvwzzz1jz3w386752", "Volkswagen", "Golf", 2021, 1_850_000, 42000)
	require.NoError(t, err)
	return v
}

func TestNewVehicle(t *testing.T) {
	v := newTestVehicle(t)

	assert.Equal(t, "WVWZZZ1JZ3W386752", v.VIN(), "VIN is upper-cased")
	assert.Equal(t, VehicleInStock, v.Status())
	assert.Equal(t, uint(1), v.TenantID())
	assert.Nil(t, v.BranchID())
}

func TestNewVehicle_Validation(t *testing.T) {
	_, err := NewVehicle(0, "VIN1", "VW", "Golf", 2021, 100, 0)
	assert.Error(t, err)

	_, err = NewVehicle(1, "  ", "VW", "Golf", 2021, 100, 0)
	assert.Error(t, err)

	_, err = NewVehicle(1, "VIN1", "", "Golf", 2021, 100, 0)
	assert.Error(t, err)

	_, err = NewVehicle(1, "VIN1", "VW", "Golf", 1850, 100, 0)
	assert.Error(t, err)

	_, err = NewVehicle(1, "VIN1", "VW", "Golf", 2021, -1, 0)
	assert.Error(t, err)
}

func TestVehicle_ReserveReleaseSell(t *testing.T) {
	v := newTestVehicle(t)

	require.NoError(t, v.Reserve())
	assert.Equal(t, VehicleReserved, v.Status())
	assert.Error(t, v.Reserve(), "double reserve is rejected")

	require.NoError(t, v.Release())
	assert.Equal(t, VehicleInStock, v.Status())
	assert.Error(t, v.Release(), "release requires reserved")

	require.NoError(t, v.Reserve())
	require.NoError(t, v.MarkSold())
	assert.Equal(t, VehicleSold, v.Status())

	assert.Error(t, v.Reserve())
	assert.Error(t, v.MarkSold())
}

func TestVehicle_TransferLifecycle(t *testing.T) {
	v := newTestVehicle(t)

	require.NoError(t, v.BeginTransfer())
	assert.Equal(t, VehicleInTransfer, v.Status())

	// While in transfer the vehicle is locked.
	assert.Error(t, v.Reserve())
	assert.Error(t, v.MarkSold())
	assert.Error(t, v.BeginTransfer())

	require.NoError(t, v.CompleteTransfer(2))
	assert.Equal(t, uint(2), v.TenantID())
	assert.Equal(t, VehicleInStock, v.Status())
	assert.Nil(t, v.BranchID(), "branch assignment does not survive the move")
}

func TestVehicle_CancelTransfer(t *testing.T) {
	v := newTestVehicle(t)
	require.NoError(t, v.AssignBranch(9))

	require.NoError(t, v.BeginTransfer())
	require.NoError(t, v.CancelTransfer())

	assert.Equal(t, VehicleInStock, v.Status())
	assert.Equal(t, uint(1), v.TenantID(), "cancel keeps the vehicle at the source tenant")
	require.NotNil(t, v.BranchID())
	assert.Equal(t, uint(9), *v.BranchID())
}

func TestVehicle_CompleteTransfer_Validation(t *testing.T) {
	v := newTestVehicle(t)

	assert.Error(t, v.CompleteTransfer(2), "not in transfer")

	require.NoError(t, v.BeginTransfer())
	assert.Error(t, v.CompleteTransfer(0))
}

func TestVehicle_UpdatePrice(t *testing.T) {
	v := newTestVehicle(t)

	require.NoError(t, v.UpdatePrice(2_000_000))
	assert.Equal(t, int64(2_000_000), v.PriceCents())

	assert.Error(t, v.UpdatePrice(-1))
}
