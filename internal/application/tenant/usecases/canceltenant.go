package usecases

import (
	"context"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/logger"
)

type CancelTenantCommand struct {
	TenantID    uint
	Reason      string
	TriggeredBy string
}

// CancelTenantUseCase moves the tenant to the terminal cancelled state and
// schedules data deletion after the retention offset. Data stays readable by
// support tooling until the sweeper soft-deletes it.
type CancelTenantUseCase struct {
	tenantRepo           tenant.Repository
	transition           *TransitionTenantStatusUseCase
	deletionOffsetMonths int
	logger               logger.Interface
}

func NewCancelTenantUseCase(
	tenantRepo tenant.Repository,
	transition *TransitionTenantStatusUseCase,
	deletionOffsetMonths int,
	logger logger.Interface,
) *CancelTenantUseCase {
	return &CancelTenantUseCase{
		tenantRepo:           tenantRepo,
		transition:           transition,
		deletionOffsetMonths: deletionOffsetMonths,
		logger:               logger,
	}
}

func (uc *CancelTenantUseCase) Execute(ctx context.Context, cmd CancelTenantCommand) (*tenant.Tenant, error) {
	reason := cmd.Reason
	if reason == "" {
		reason = "subscription cancelled"
	}

	t, err := uc.transition.Execute(ctx, TransitionTenantStatusCommand{
		TenantID:    cmd.TenantID,
		To:          vo.StatusCancelled,
		Reason:      reason,
		TriggeredBy: cmd.TriggeredBy,
	})
	if err != nil {
		return nil, err
	}

	deletionAt := biztime.NowUTC().AddDate(0, uc.deletionOffsetMonths, 0)
	t.ScheduleDeletion(deletionAt)
	if err := uc.tenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.logger.Infow("tenant cancelled",
		"tenant_id", t.ID(),
		"scheduled_deletion_at", deletionAt)

	return t, nil
}
