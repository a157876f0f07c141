package usecases

import (
	"context"

	"motordesk/internal/domain/dealership"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/domain/user"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

type HardDeleteTenantCommand struct {
	TenantSID string
}

// HardDeleteTenantUseCase permanently removes a tenant and everything it
// owns. Explicit administrator action only; the sweeper never reaches this.
// All deletes run in one transaction so a failure leaves no orphans.
type HardDeleteTenantUseCase struct {
	tenantRepo   tenant.Repository
	userRepo     user.Repository
	vehicleRepo  dealership.VehicleRepository
	customerRepo dealership.CustomerRepository
	branchRepo   dealership.BranchRepository
	transferRepo dealership.StockTransferRepository
	txManager    *db.TransactionManager
	logger       logger.Interface
}

func NewHardDeleteTenantUseCase(
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	vehicleRepo dealership.VehicleRepository,
	customerRepo dealership.CustomerRepository,
	branchRepo dealership.BranchRepository,
	transferRepo dealership.StockTransferRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *HardDeleteTenantUseCase {
	return &HardDeleteTenantUseCase{
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		transferRepo: transferRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (uc *HardDeleteTenantUseCase) Execute(ctx context.Context, cmd HardDeleteTenantCommand) error {
	t, err := uc.tenantRepo.GetBySID(ctx, cmd.TenantSID)
	if err != nil {
		return err
	}

	var vehicles, customers, branches, users, transfers int64

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if vehicles, err = uc.vehicleRepo.DeleteByTenant(txCtx, t.ID()); err != nil {
			return err
		}
		if customers, err = uc.customerRepo.DeleteByTenant(txCtx, t.ID()); err != nil {
			return err
		}
		if branches, err = uc.branchRepo.DeleteByTenant(txCtx, t.ID()); err != nil {
			return err
		}
		if users, err = uc.userRepo.DeleteByTenant(txCtx, t.ID()); err != nil {
			return err
		}
		if transfers, err = uc.transferRepo.DeleteByTenant(txCtx, t.ID()); err != nil {
			return err
		}
		return uc.tenantRepo.HardDelete(txCtx, t.ID())
	})
	if err != nil {
		uc.logger.Errorw("tenant hard delete failed",
			"tenant_id", t.ID(),
			"sid", t.SID(),
			"error", err)
		return err
	}

	uc.logger.Infow("tenant hard-deleted with owned data",
		"tenant_id", t.ID(),
		"sid", t.SID(),
		"vehicles", vehicles,
		"customers", customers,
		"branches", branches,
		"users", users,
		"transfers", transfers)

	return nil
}
