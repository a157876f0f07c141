package usecases

import (
	"context"

	"motordesk/internal/application/limits"
	"motordesk/internal/domain/dealership"
	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type CreateVehicleCommand struct {
	TenantID   uint
	VIN        string
	Make       string
	Model      string
	Year       int
	PriceCents int64
	Mileage    int
	BranchSID  string
}

// CreateVehicleUseCase creates a vehicle after the plan limit check. The
// tenant ID comes from the resolved request context, never from the payload.
type CreateVehicleUseCase struct {
	tenantRepo  tenant.Repository
	vehicleRepo dealership.VehicleRepository
	branchRepo  dealership.BranchRepository
	limits      *limits.Evaluator
	logger      logger.Interface
}

func NewCreateVehicleUseCase(
	tenantRepo tenant.Repository,
	vehicleRepo dealership.VehicleRepository,
	branchRepo dealership.BranchRepository,
	limits *limits.Evaluator,
	logger logger.Interface,
) *CreateVehicleUseCase {
	return &CreateVehicleUseCase{
		tenantRepo:  tenantRepo,
		vehicleRepo: vehicleRepo,
		branchRepo:  branchRepo,
		limits:      limits,
		logger:      logger,
	}
}

func (uc *CreateVehicleUseCase) Execute(ctx context.Context, cmd CreateVehicleCommand) (*dealership.Vehicle, error) {
	t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if err := uc.limits.AssertCanCreate(ctx, t, plan.LimitVehicles); err != nil {
		return nil, err
	}

	v, err := dealership.NewVehicle(cmd.TenantID, cmd.VIN, cmd.Make, cmd.Model, cmd.Year, cmd.PriceCents, cmd.Mileage)
	if err != nil {
		return nil, err
	}

	if cmd.BranchSID != "" {
		b, err := uc.branchRepo.GetBySID(ctx, cmd.TenantID, cmd.BranchSID)
		if err != nil {
			return nil, err
		}
		if err := v.AssignBranch(b.ID()); err != nil {
			return nil, err
		}
	}

	if err := uc.vehicleRepo.Create(ctx, cmd.TenantID, v); err != nil {
		return nil, err
	}

	uc.logger.Infow("vehicle created",
		"tenant_id", cmd.TenantID,
		"sid", v.SID(),
		"vin", v.VIN())

	return v, nil
}

// GetVehicleUseCase reads one vehicle within the tenant scope.
type GetVehicleUseCase struct {
	vehicleRepo dealership.VehicleRepository
}

func NewGetVehicleUseCase(vehicleRepo dealership.VehicleRepository) *GetVehicleUseCase {
	return &GetVehicleUseCase{vehicleRepo: vehicleRepo}
}

func (uc *GetVehicleUseCase) Execute(ctx context.Context, tenantID uint, sid string) (*dealership.Vehicle, error) {
	return uc.vehicleRepo.GetBySID(ctx, tenantID, sid)
}

// ListVehiclesUseCase pages through a tenant's vehicles.
type ListVehiclesUseCase struct {
	vehicleRepo dealership.VehicleRepository
}

func NewListVehiclesUseCase(vehicleRepo dealership.VehicleRepository) *ListVehiclesUseCase {
	return &ListVehiclesUseCase{vehicleRepo: vehicleRepo}
}

func (uc *ListVehiclesUseCase) Execute(ctx context.Context, tenantID uint, f dealership.VehicleFilter) ([]*dealership.Vehicle, int64, error) {
	return uc.vehicleRepo.List(ctx, tenantID, f)
}

type UpdateVehicleCommand struct {
	TenantID   uint
	SID        string
	PriceCents *int64
	BranchSID  *string
}

// UpdateVehicleUseCase applies mutable field updates. Status moves go through
// ChangeVehicleStatusUseCase, never through here.
type UpdateVehicleUseCase struct {
	vehicleRepo dealership.VehicleRepository
	branchRepo  dealership.BranchRepository
	logger      logger.Interface
}

func NewUpdateVehicleUseCase(
	vehicleRepo dealership.VehicleRepository,
	branchRepo dealership.BranchRepository,
	logger logger.Interface,
) *UpdateVehicleUseCase {
	return &UpdateVehicleUseCase{
		vehicleRepo: vehicleRepo,
		branchRepo:  branchRepo,
		logger:      logger,
	}
}

func (uc *UpdateVehicleUseCase) Execute(ctx context.Context, cmd UpdateVehicleCommand) (*dealership.Vehicle, error) {
	v, err := uc.vehicleRepo.GetBySID(ctx, cmd.TenantID, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.PriceCents != nil {
		if err := v.UpdatePrice(*cmd.PriceCents); err != nil {
			return nil, err
		}
	}
	if cmd.BranchSID != nil {
		b, err := uc.branchRepo.GetBySID(ctx, cmd.TenantID, *cmd.BranchSID)
		if err != nil {
			return nil, err
		}
		if err := v.AssignBranch(b.ID()); err != nil {
			return nil, err
		}
	}

	if err := uc.vehicleRepo.Update(ctx, cmd.TenantID, v); err != nil {
		return nil, err
	}
	return v, nil
}

const (
	VehicleActionReserve = "reserve"
	VehicleActionRelease = "release"
	VehicleActionSell    = "sell"
)

type ChangeVehicleStatusCommand struct {
	TenantID uint
	SID      string
	Action   string
}

// ChangeVehicleStatusUseCase drives the vehicle status machine through named
// actions so handlers never set raw statuses.
type ChangeVehicleStatusUseCase struct {
	vehicleRepo dealership.VehicleRepository
	logger      logger.Interface
}

func NewChangeVehicleStatusUseCase(vehicleRepo dealership.VehicleRepository, logger logger.Interface) *ChangeVehicleStatusUseCase {
	return &ChangeVehicleStatusUseCase{vehicleRepo: vehicleRepo, logger: logger}
}

func (uc *ChangeVehicleStatusUseCase) Execute(ctx context.Context, cmd ChangeVehicleStatusCommand) (*dealership.Vehicle, error) {
	v, err := uc.vehicleRepo.GetBySID(ctx, cmd.TenantID, cmd.SID)
	if err != nil {
		return nil, err
	}

	switch cmd.Action {
	case VehicleActionReserve:
		err = v.Reserve()
	case VehicleActionRelease:
		err = v.Release()
	case VehicleActionSell:
		err = v.MarkSold()
	default:
		return nil, errors.NewValidationError("unknown vehicle action: " + cmd.Action)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.vehicleRepo.Update(ctx, cmd.TenantID, v); err != nil {
		return nil, err
	}

	uc.logger.Infow("vehicle status changed",
		"tenant_id", cmd.TenantID,
		"sid", v.SID(),
		"status", v.Status())

	return v, nil
}

// DeleteVehicleUseCase removes a vehicle from the tenant's inventory.
type DeleteVehicleUseCase struct {
	vehicleRepo dealership.VehicleRepository
	logger      logger.Interface
}

func NewDeleteVehicleUseCase(vehicleRepo dealership.VehicleRepository, logger logger.Interface) *DeleteVehicleUseCase {
	return &DeleteVehicleUseCase{vehicleRepo: vehicleRepo, logger: logger}
}

func (uc *DeleteVehicleUseCase) Execute(ctx context.Context, tenantID uint, sid string) error {
	v, err := uc.vehicleRepo.GetBySID(ctx, tenantID, sid)
	if err != nil {
		return err
	}
	if v.Status() == dealership.VehicleInTransfer {
		return errors.NewConflictError("vehicle has a pending transfer")
	}
	if err := uc.vehicleRepo.Delete(ctx, tenantID, sid); err != nil {
		return err
	}

	uc.logger.Infow("vehicle deleted", "tenant_id", tenantID, "sid", sid)
	return nil
}
