package usecases

import (
	"context"
	"time"

	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/logger"
)

type CreateTenantCommand struct {
	Name     string
	PlanTier string
}

// CreateTenantUseCase opens a new dealership account in trial.
type CreateTenantUseCase struct {
	tenantRepo tenant.Repository
	trialDays  int
	logger     logger.Interface
}

func NewCreateTenantUseCase(tenantRepo tenant.Repository, trialDays int, logger logger.Interface) *CreateTenantUseCase {
	return &CreateTenantUseCase{
		tenantRepo: tenantRepo,
		trialDays:  trialDays,
		logger:     logger,
	}
}

func (uc *CreateTenantUseCase) Execute(ctx context.Context, cmd CreateTenantCommand) (*tenant.Tenant, error) {
	trialEndsAt := biztime.NowUTC().Add(time.Duration(uc.trialDays) * 24 * time.Hour)

	t, err := tenant.NewTenant(cmd.Name, cmd.PlanTier, trialEndsAt)
	if err != nil {
		return nil, err
	}

	if err := uc.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	uc.logger.Infow("tenant created",
		"tenant_id", t.ID(),
		"sid", t.SID(),
		"plan_tier", t.PlanTier(),
		"trial_ends_at", trialEndsAt)

	return t, nil
}

type ProvisionTenantCommand struct {
	Name               string
	PlanID             uint
	SubscriptionEndsAt time.Time
}

// ProvisionTenantUseCase creates an administrator-provisioned tenant that
// starts active with a prepaid period, skipping the trial.
type ProvisionTenantUseCase struct {
	tenantRepo tenant.Repository
	logger     logger.Interface
}

func NewProvisionTenantUseCase(tenantRepo tenant.Repository, logger logger.Interface) *ProvisionTenantUseCase {
	return &ProvisionTenantUseCase{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

func (uc *ProvisionTenantUseCase) Execute(ctx context.Context, cmd ProvisionTenantCommand) (*tenant.Tenant, error) {
	t, err := tenant.NewProvisionedTenant(cmd.Name, cmd.PlanID, cmd.SubscriptionEndsAt)
	if err != nil {
		return nil, err
	}

	if err := uc.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	uc.logger.Infow("tenant provisioned",
		"tenant_id", t.ID(),
		"sid", t.SID(),
		"plan_id", cmd.PlanID,
		"subscription_ends_at", cmd.SubscriptionEndsAt)

	return t, nil
}
