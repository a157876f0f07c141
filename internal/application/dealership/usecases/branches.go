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

type CreateBranchCommand struct {
	TenantID uint
	Name     string
	Address  string
	Phone    string
}

type CreateBranchUseCase struct {
	tenantRepo tenant.Repository
	branchRepo dealership.BranchRepository
	limits     *limits.Evaluator
	logger     logger.Interface
}

func NewCreateBranchUseCase(
	tenantRepo tenant.Repository,
	branchRepo dealership.BranchRepository,
	limits *limits.Evaluator,
	logger logger.Interface,
) *CreateBranchUseCase {
	return &CreateBranchUseCase{
		tenantRepo: tenantRepo,
		branchRepo: branchRepo,
		limits:     limits,
		logger:     logger,
	}
}

func (uc *CreateBranchUseCase) Execute(ctx context.Context, cmd CreateBranchCommand) (*dealership.Branch, error) {
	t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if err := uc.limits.AssertCanCreate(ctx, t, plan.LimitBranches); err != nil {
		return nil, err
	}

	b, err := dealership.NewBranch(cmd.TenantID, cmd.Name, cmd.Address, cmd.Phone)
	if err != nil {
		return nil, err
	}

	if err := uc.branchRepo.Create(ctx, cmd.TenantID, b); err != nil {
		return nil, err
	}

	uc.logger.Infow("branch created", "tenant_id", cmd.TenantID, "sid", b.SID())
	return b, nil
}

type ListBranchesUseCase struct {
	branchRepo dealership.BranchRepository
}

func NewListBranchesUseCase(branchRepo dealership.BranchRepository) *ListBranchesUseCase {
	return &ListBranchesUseCase{branchRepo: branchRepo}
}

func (uc *ListBranchesUseCase) Execute(ctx context.Context, tenantID uint) ([]*dealership.Branch, error) {
	return uc.branchRepo.List(ctx, tenantID)
}

type UpdateBranchCommand struct {
	TenantID uint
	SID      string
	Name     *string
	Address  *string
	Phone    *string
}

type UpdateBranchUseCase struct {
	branchRepo dealership.BranchRepository
	logger     logger.Interface
}

func NewUpdateBranchUseCase(branchRepo dealership.BranchRepository, logger logger.Interface) *UpdateBranchUseCase {
	return &UpdateBranchUseCase{branchRepo: branchRepo, logger: logger}
}

func (uc *UpdateBranchUseCase) Execute(ctx context.Context, cmd UpdateBranchCommand) (*dealership.Branch, error) {
	b, err := uc.branchRepo.GetBySID(ctx, cmd.TenantID, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if err := b.Rename(*cmd.Name); err != nil {
			return nil, err
		}
	}
	if cmd.Address != nil || cmd.Phone != nil {
		address, phone := b.Address(), b.Phone()
		if cmd.Address != nil {
			address = *cmd.Address
		}
		if cmd.Phone != nil {
			phone = *cmd.Phone
		}
		b.UpdateContact(address, phone)
	}

	if err := uc.branchRepo.Update(ctx, cmd.TenantID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBranchUseCase removes a branch. Vehicles keep their branch FK null on
// delete via the schema, so no cascade is needed here, but a branch with
// assigned vehicles is refused to avoid silently orphaning inventory.
type DeleteBranchUseCase struct {
	branchRepo  dealership.BranchRepository
	vehicleRepo dealership.VehicleRepository
	logger      logger.Interface
}

func NewDeleteBranchUseCase(
	branchRepo dealership.BranchRepository,
	vehicleRepo dealership.VehicleRepository,
	logger logger.Interface,
) *DeleteBranchUseCase {
	return &DeleteBranchUseCase{
		branchRepo:  branchRepo,
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

func (uc *DeleteBranchUseCase) Execute(ctx context.Context, tenantID uint, sid string) error {
	b, err := uc.branchRepo.GetBySID(ctx, tenantID, sid)
	if err != nil {
		return err
	}

	branchID := b.ID()
	_, total, err := uc.vehicleRepo.List(ctx, tenantID, dealership.VehicleFilter{BranchID: &branchID, PageSize: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return errors.NewConflictError("branch still has assigned vehicles")
	}

	if err := uc.branchRepo.Delete(ctx, tenantID, sid); err != nil {
		return err
	}
	uc.logger.Infow("branch deleted", "tenant_id", tenantID, "sid", sid)
	return nil
}
