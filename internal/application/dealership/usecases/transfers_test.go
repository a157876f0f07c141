package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"motordesk/internal/application/limits"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/infrastructure/repository"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type transferFixture struct {
	tenantRepo   tenant.Repository
	planRepo     plan.Repository
	vehicleRepo  dealership.VehicleRepository
	transferRepo dealership.StockTransferRepository
	initiate     *InitiateStockTransferUseCase
	resolve      *ResolveStockTransferUseCase

	source *tenant.Tenant
	dest   *tenant.Tenant
}

func newTransferFixture(t *testing.T, destMaxVehicles int64) *transferFixture {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(
		&models.TenantModel{},
		&models.PlanModel{},
		&models.VehicleModel{},
		&models.StockTransferModel{},
	))

	log := logger.NewNop()
	ctx := context.Background()

	tenantRepo := repository.NewTenantRepository(gormDB, log)
	planRepo := repository.NewPlanRepository(gormDB, log)
	vehicleRepo := repository.NewVehicleRepository(gormDB, log)
	transferRepo := repository.NewStockTransferRepository(gormDB, log)
	txManager := db.NewTransactionManager(gormDB)

	// Source plan grants the transfer feature; destination plan caps vehicles.
	sourcePlan, err := plan.NewPlan("pro", "Pro", plan.Limits{MaxVehicles: plan.Unlimited}, false,
		map[string]interface{}{plan.FeatureStockTransfer: true})
	require.NoError(t, err)
	require.NoError(t, planRepo.Create(ctx, sourcePlan))

	destPlan, err := plan.NewPlan("starter", "Starter", plan.Limits{MaxVehicles: destMaxVehicles}, false, nil)
	require.NoError(t, err)
	require.NoError(t, planRepo.Create(ctx, destPlan))

	source, err := tenant.NewTenant("Source Motors", "pro", time.Now().UTC().AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Create(ctx, source))

	dest, err := tenant.NewTenant("Dest Motors", "starter", time.Now().UTC().AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Create(ctx, dest))

	counters := map[plan.LimitKind]limits.Counter{
		plan.LimitVehicles: vehicleRepo,
	}
	evaluator := limits.NewEvaluator(planRepo, counters, log)

	return &transferFixture{
		tenantRepo:   tenantRepo,
		planRepo:     planRepo,
		vehicleRepo:  vehicleRepo,
		transferRepo: transferRepo,
		initiate:     NewInitiateStockTransferUseCase(tenantRepo, vehicleRepo, transferRepo, evaluator, txManager, log),
		resolve:      NewResolveStockTransferUseCase(tenantRepo, vehicleRepo, transferRepo, evaluator, txManager, log),
		source:       source,
		dest:         dest,
	}
}

func (f *transferFixture) createVehicle(t *testing.T, tenantID uint, vin string) *dealership.Vehicle {
	t.Helper()
	v, err := dealership.NewVehicle(tenantID, vin, "Toyota", "Corolla", 2022, 1_200_000, 10000)
	require.NoError(t, err)
	require.NoError(t, f.vehicleRepo.Create(context.Background(), tenantID, v))
	return v
}

func TestStockTransfer_InitiateAndAccept(t *testing.T) {
	f := newTransferFixture(t, plan.Unlimited)
	ctx := context.Background()

	v := f.createVehicle(t, f.source.ID(), "VIN-XFER-1")

	xfer, err := f.initiate.Execute(ctx, InitiateStockTransferCommand{
		FromTenantID: f.source.ID(),
		ToTenantSID:  f.dest.SID(),
		VehicleSID:   v.SID(),
		InitiatedBy:  "usr_src1",
		Reason:       "surplus stock",
	})
	require.NoError(t, err)
	assert.Equal(t, dealership.TransferPending, xfer.Status())

	// Locked at the source while pending.
	locked, err := f.vehicleRepo.GetBySID(ctx, f.source.ID(), v.SID())
	require.NoError(t, err)
	assert.Equal(t, dealership.VehicleInTransfer, locked.Status())

	resolved, err := f.resolve.Execute(ctx, ResolveStockTransferCommand{
		TransferSID: xfer.SID(),
		TenantID:    f.dest.ID(),
		ResolvedBy:  "usr_dst1",
		Action:      TransferActionAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, dealership.TransferAccepted, resolved.Status())

	// Ownership moved: invisible to the source, in stock at the destination.
	_, err = f.vehicleRepo.GetBySID(ctx, f.source.ID(), v.SID())
	assert.Error(t, err)

	moved, err := f.vehicleRepo.GetBySID(ctx, f.dest.ID(), v.SID())
	require.NoError(t, err)
	assert.Equal(t, dealership.VehicleInStock, moved.Status())
}

func TestStockTransfer_Reject(t *testing.T) {
	f := newTransferFixture(t, plan.Unlimited)
	ctx := context.Background()

	v := f.createVehicle(t, f.source.ID(), "VIN-XFER-2")
	xfer, err := f.initiate.Execute(ctx, InitiateStockTransferCommand{
		FromTenantID: f.source.ID(), ToTenantSID: f.dest.SID(), VehicleSID: v.SID(), InitiatedBy: "usr_src1",
	})
	require.NoError(t, err)

	resolved, err := f.resolve.Execute(ctx, ResolveStockTransferCommand{
		TransferSID: xfer.SID(), TenantID: f.dest.ID(), ResolvedBy: "usr_dst1", Action: TransferActionReject,
	})
	require.NoError(t, err)
	assert.Equal(t, dealership.TransferRejected, resolved.Status())

	// Vehicle returns to stock at the source.
	back, err := f.vehicleRepo.GetBySID(ctx, f.source.ID(), v.SID())
	require.NoError(t, err)
	assert.Equal(t, dealership.VehicleInStock, back.Status())
}

func TestStockTransfer_CancelBySource(t *testing.T) {
	f := newTransferFixture(t, plan.Unlimited)
	ctx := context.Background()

	v := f.createVehicle(t, f.source.ID(), "VIN-XFER-3")
	xfer, err := f.initiate.Execute(ctx, InitiateStockTransferCommand{
		FromTenantID: f.source.ID(), ToTenantSID: f.dest.SID(), VehicleSID: v.SID(), InitiatedBy: "usr_src1",
	})
	require.NoError(t, err)

	// The destination cannot cancel.
	_, err = f.resolve.Execute(ctx, ResolveStockTransferCommand{
		TransferSID: xfer.SID(), TenantID: f.dest.ID(), ResolvedBy: "usr_dst1", Action: TransferActionCancel,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err), "wrong-side resolution hides the transfer")

	resolved, err := f.resolve.Execute(ctx, ResolveStockTransferCommand{
		TransferSID: xfer.SID(), TenantID: f.source.ID(), ResolvedBy: "usr_src1", Action: TransferActionCancel,
	})
	require.NoError(t, err)
	assert.Equal(t, dealership.TransferCancelled, resolved.Status())
}

func TestStockTransfer_WrongSideAcceptHidden(t *testing.T) {
	f := newTransferFixture(t, plan.Unlimited)
	ctx := context.Background()

	v := f.createVehicle(t, f.source.ID(), "VIN-XFER-4")
	xfer, err := f.initiate.Execute(ctx, InitiateStockTransferCommand{
		FromTenantID: f.source.ID(), ToTenantSID: f.dest.SID(), VehicleSID: v.SID(), InitiatedBy: "usr_src1",
	})
	require.NoError(t, err)

	// The source cannot accept its own outbound transfer.
	_, err = f.resolve.Execute(ctx, ResolveStockTransferCommand{
		TransferSID: xfer.SID(), TenantID: f.source.ID(), ResolvedBy: "usr_src1", Action: TransferActionAccept,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestStockTransfer_AcceptBlockedByDestLimit(t *testing.T) {
	f := newTransferFixture(t, 1)
	ctx := context.Background()

	// Destination is already at its one-vehicle cap.
	f.createVehicle(t, f.dest.ID(), "VIN-DEST-FULL")

	v := f.createVehicle(t, f.source.ID(), "VIN-XFER-5")
	xfer, err := f.initiate.Execute(ctx, InitiateStockTransferCommand{
		FromTenantID: f.source.ID(), ToTenantSID: f.dest.SID(), VehicleSID: v.SID(), InitiatedBy: "usr_src1",
	})
	require.NoError(t, err)

	_, err = f.resolve.Execute(ctx, ResolveStockTransferCommand{
		TransferSID: xfer.SID(), TenantID: f.dest.ID(), ResolvedBy: "usr_dst1", Action: TransferActionAccept,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeLimitReached))

	// The transfer stays pending and the vehicle stays locked at the source.
	still, err := f.transferRepo.GetBySID(ctx, xfer.SID())
	require.NoError(t, err)
	assert.Equal(t, dealership.TransferPending, still.Status())
}

func TestStockTransfer_FeatureGate(t *testing.T) {
	f := newTransferFixture(t, plan.Unlimited)
	ctx := context.Background()

	// Strip the source down to a plan without the transfer feature.
	basic, err := plan.NewPlan("basic", "Basic", plan.Limits{MaxVehicles: plan.Unlimited}, false, nil)
	require.NoError(t, err)
	require.NoError(t, f.planRepo.Create(ctx, basic))
	require.NoError(t, f.source.ChangePlan(basic.ID()))
	require.NoError(t, f.tenantRepo.Update(ctx, f.source))

	v := f.createVehicle(t, f.source.ID(), "VIN-XFER-6")
	_, err = f.initiate.Execute(ctx, InitiateStockTransferCommand{
		FromTenantID: f.source.ID(), ToTenantSID: f.dest.SID(), VehicleSID: v.SID(), InitiatedBy: "usr_src1",
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFeatureDisabled))
}
