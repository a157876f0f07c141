package usecases

import (
	"context"
	"time"

	"motordesk/internal/application/limits"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type InitiateStockTransferCommand struct {
	FromTenantID uint
	ToTenantSID  string
	VehicleSID   string
	InitiatedBy  string
	Reason       string
}

// InitiateStockTransferUseCase offers a vehicle to another dealership. The
// vehicle is parked in_transfer and stays owned by the source tenant until
// the destination accepts. The feature is plan-gated on the initiating side.
type InitiateStockTransferUseCase struct {
	tenantRepo   tenant.Repository
	vehicleRepo  dealership.VehicleRepository
	transferRepo dealership.StockTransferRepository
	limits       *limits.Evaluator
	txManager    *db.TransactionManager
	logger       logger.Interface
}

func NewInitiateStockTransferUseCase(
	tenantRepo tenant.Repository,
	vehicleRepo dealership.VehicleRepository,
	transferRepo dealership.StockTransferRepository,
	limits *limits.Evaluator,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *InitiateStockTransferUseCase {
	return &InitiateStockTransferUseCase{
		tenantRepo:   tenantRepo,
		vehicleRepo:  vehicleRepo,
		transferRepo: transferRepo,
		limits:       limits,
		txManager:    txManager,
		logger:       logger,
	}
}

func (uc *InitiateStockTransferUseCase) Execute(ctx context.Context, cmd InitiateStockTransferCommand) (*dealership.StockTransfer, error) {
	from, err := uc.tenantRepo.GetByID(ctx, cmd.FromTenantID)
	if err != nil {
		return nil, err
	}
	if err := uc.limits.AssertFeatureEnabled(ctx, from, plan.FeatureStockTransfer); err != nil {
		return nil, err
	}

	to, err := uc.tenantRepo.GetBySID(ctx, cmd.ToTenantSID)
	if err != nil {
		return nil, err
	}
	if to.IsDeleted() {
		return nil, errors.NewNotFoundError("destination tenant not found")
	}

	v, err := uc.vehicleRepo.GetBySID(ctx, cmd.FromTenantID, cmd.VehicleSID)
	if err != nil {
		return nil, err
	}
	if err := v.BeginTransfer(); err != nil {
		return nil, err
	}

	xfer, err := dealership.NewStockTransfer(v.ID(), cmd.FromTenantID, to.ID(), cmd.InitiatedBy, cmd.Reason)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.vehicleRepo.Update(txCtx, cmd.FromTenantID, v); err != nil {
			return err
		}
		return uc.transferRepo.Create(txCtx, xfer)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("stock transfer initiated",
		"sid", xfer.SID(),
		"vehicle_sid", v.SID(),
		"from_tenant_id", cmd.FromTenantID,
		"to_tenant_id", to.ID())

	return xfer, nil
}

const (
	TransferActionAccept = "accept"
	TransferActionReject = "reject"
	TransferActionCancel = "cancel"
)

type ResolveStockTransferCommand struct {
	TransferSID string
	TenantID    uint
	ResolvedBy  string
	Action      string
}

// ResolveStockTransferUseCase settles a pending transfer. Accept and reject
// belong to the destination tenant, cancel to the source. Accept is the one
// sanctioned cross-tenant write in the system: the vehicle row changes owner
// inside the same transaction that closes the transfer.
type ResolveStockTransferUseCase struct {
	tenantRepo   tenant.Repository
	vehicleRepo  dealership.VehicleRepository
	transferRepo dealership.StockTransferRepository
	limits       *limits.Evaluator
	txManager    *db.TransactionManager
	logger       logger.Interface
}

func NewResolveStockTransferUseCase(
	tenantRepo tenant.Repository,
	vehicleRepo dealership.VehicleRepository,
	transferRepo dealership.StockTransferRepository,
	limits *limits.Evaluator,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *ResolveStockTransferUseCase {
	return &ResolveStockTransferUseCase{
		tenantRepo:   tenantRepo,
		vehicleRepo:  vehicleRepo,
		transferRepo: transferRepo,
		limits:       limits,
		txManager:    txManager,
		logger:       logger,
	}
}

func (uc *ResolveStockTransferUseCase) Execute(ctx context.Context, cmd ResolveStockTransferCommand) (*dealership.StockTransfer, error) {
	xfer, err := uc.transferRepo.GetBySID(ctx, cmd.TransferSID)
	if err != nil {
		return nil, err
	}

	switch cmd.Action {
	case TransferActionAccept, TransferActionReject:
		if xfer.ToTenantID() != cmd.TenantID {
			return nil, errors.NewNotFoundError("transfer not found")
		}
	case TransferActionCancel:
		if xfer.FromTenantID() != cmd.TenantID {
			return nil, errors.NewNotFoundError("transfer not found")
		}
	default:
		return nil, errors.NewValidationError("unknown transfer action: " + cmd.Action)
	}

	// The destination limit check runs inside the same transaction as the
	// ownership move, so a concurrent create cannot slip the destination
	// past its cap between check and commit.
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		v, err := uc.vehicleRepo.GetByIDUnscoped(txCtx, xfer.VehicleID())
		if err != nil {
			return err
		}

		switch cmd.Action {
		case TransferActionAccept:
			dest, err := uc.tenantRepo.GetByID(txCtx, xfer.ToTenantID())
			if err != nil {
				return err
			}
			if err := uc.limits.AssertCanCreate(txCtx, dest, plan.LimitVehicles); err != nil {
				return err
			}
			if err := xfer.Accept(cmd.ResolvedBy); err != nil {
				return err
			}
			if err := v.CompleteTransfer(xfer.ToTenantID()); err != nil {
				return err
			}
		case TransferActionReject:
			if err := xfer.Reject(cmd.ResolvedBy); err != nil {
				return err
			}
			if err := v.CancelTransfer(); err != nil {
				return err
			}
		case TransferActionCancel:
			if err := xfer.Cancel(cmd.ResolvedBy); err != nil {
				return err
			}
			if err := v.CancelTransfer(); err != nil {
				return err
			}
		}

		if err := uc.vehicleRepo.UpdateUnscoped(txCtx, v); err != nil {
			return err
		}
		return uc.transferRepo.Update(txCtx, xfer)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("stock transfer resolved",
		"sid", xfer.SID(),
		"status", xfer.Status(),
		"resolved_by", cmd.ResolvedBy)

	return xfer, nil
}

// ListStockTransfersUseCase lists transfers where the tenant is either side.
type ListStockTransfersUseCase struct {
	transferRepo dealership.StockTransferRepository
}

func NewListStockTransfersUseCase(transferRepo dealership.StockTransferRepository) *ListStockTransfersUseCase {
	return &ListStockTransfersUseCase{transferRepo: transferRepo}
}

func (uc *ListStockTransfersUseCase) Execute(ctx context.Context, tenantID uint, since time.Time) ([]*dealership.StockTransfer, error) {
	return uc.transferRepo.ListInvolving(ctx, tenantID, since)
}
