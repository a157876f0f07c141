package usecases

import (
	"context"

	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type ChangeTenantPlanCommand struct {
	TenantID uint
	PlanID   uint
}

// ChangeTenantPlanUseCase assigns a direct plan FK to the tenant. Limits take
// effect on the next evaluation; existing entities over the new limit are
// kept, only further creation is blocked.
type ChangeTenantPlanUseCase struct {
	tenantRepo tenant.Repository
	planRepo   plan.Repository
	logger     logger.Interface
}

func NewChangeTenantPlanUseCase(
	tenantRepo tenant.Repository,
	planRepo plan.Repository,
	logger logger.Interface,
) *ChangeTenantPlanUseCase {
	return &ChangeTenantPlanUseCase{
		tenantRepo: tenantRepo,
		planRepo:   planRepo,
		logger:     logger,
	}
}

func (uc *ChangeTenantPlanUseCase) Execute(ctx context.Context, cmd ChangeTenantPlanCommand) (*tenant.Tenant, error) {
	p, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.Active() {
		return nil, errors.NewValidationError("plan is not available for assignment")
	}

	t, err := uc.tenantRepo.GetByID(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}

	if err := t.ChangePlan(p.ID()); err != nil {
		return nil, err
	}

	if err := uc.tenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.logger.Infow("tenant plan changed",
		"tenant_id", t.ID(),
		"plan_id", p.ID(),
		"plan_slug", p.Slug())

	return t, nil
}
