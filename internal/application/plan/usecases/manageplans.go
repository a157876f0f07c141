package usecases

import (
	"context"

	"motordesk/internal/domain/plan"
	"motordesk/internal/shared/logger"
)

type CreatePlanCommand struct {
	Slug           string
	Name           string
	Limits         plan.Limits
	CanCreateGroup bool
	Features       map[string]interface{}
}

// CreatePlanUseCase registers a new subscription plan (platform surface).
type CreatePlanUseCase struct {
	planRepo plan.Repository
	logger   logger.Interface
}

func NewCreatePlanUseCase(planRepo plan.Repository, logger logger.Interface) *CreatePlanUseCase {
	return &CreatePlanUseCase{planRepo: planRepo, logger: logger}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*plan.Plan, error) {
	p, err := plan.NewPlan(cmd.Slug, cmd.Name, cmd.Limits, cmd.CanCreateGroup, cmd.Features)
	if err != nil {
		return nil, err
	}
	if err := uc.planRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Infow("plan created", "plan_id", p.ID(), "slug", p.Slug())
	return p, nil
}

// ListPlansUseCase lists plans; activeOnly hides retired ones from signup.
type ListPlansUseCase struct {
	planRepo plan.Repository
}

func NewListPlansUseCase(planRepo plan.Repository) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	return uc.planRepo.List(ctx, activeOnly)
}

// GetPlanUseCase reads one plan by slug.
type GetPlanUseCase struct {
	planRepo plan.Repository
}

func NewGetPlanUseCase(planRepo plan.Repository) *GetPlanUseCase {
	return &GetPlanUseCase{planRepo: planRepo}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, slug string) (*plan.Plan, error) {
	return uc.planRepo.GetBySlug(ctx, slug)
}

// RetirePlanUseCase deactivates a plan. Tenants already on it keep their
// entitlements; it only disappears from assignment and signup.
type RetirePlanUseCase struct {
	planRepo plan.Repository
	logger   logger.Interface
}

func NewRetirePlanUseCase(planRepo plan.Repository, logger logger.Interface) *RetirePlanUseCase {
	return &RetirePlanUseCase{planRepo: planRepo, logger: logger}
}

func (uc *RetirePlanUseCase) Execute(ctx context.Context, slug string) (*plan.Plan, error) {
	p, err := uc.planRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.Deactivate()
	if err := uc.planRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Infow("plan retired", "plan_id", p.ID(), "slug", p.Slug())
	return p, nil
}
