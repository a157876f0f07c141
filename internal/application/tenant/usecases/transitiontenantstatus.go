package usecases

import (
	"context"
	"fmt"

	"motordesk/internal/domain/shared/events"
	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

type TransitionTenantStatusCommand struct {
	TenantID    uint
	To          vo.SubscriptionStatus
	Suspension  vo.SuspensionType
	Reason      string
	TriggeredBy string
	ReferenceID string
}

// TransitionTenantStatusUseCase is the single write path for subscription
// status. The status update and the audit row commit in one transaction;
// post-commit hooks (notifications) run after and cannot roll it back.
type TransitionTenantStatusUseCase struct {
	tenantRepo  tenant.Repository
	historyRepo tenant.HistoryRepository
	txManager   *db.TransactionManager
	hooks       *events.HookRunner
	logger      logger.Interface
}

func NewTransitionTenantStatusUseCase(
	tenantRepo tenant.Repository,
	historyRepo tenant.HistoryRepository,
	txManager *db.TransactionManager,
	hooks *events.HookRunner,
	logger logger.Interface,
) *TransitionTenantStatusUseCase {
	return &TransitionTenantStatusUseCase{
		tenantRepo:  tenantRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		hooks:       hooks,
		logger:      logger,
	}
}

// Execute performs the transition. A self-transition succeeds without writing
// anything: no status update, no history row, no hooks.
func (uc *TransitionTenantStatusUseCase) Execute(ctx context.Context, cmd TransitionTenantStatusCommand) (*tenant.Tenant, error) {
	if cmd.Reason == "" {
		return nil, fmt.Errorf("transition reason is required")
	}

	var (
		result    *tenant.Tenant
		oldStatus vo.SubscriptionStatus
		changed   bool
	)

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.tenantRepo.GetByID(txCtx, cmd.TenantID)
		if err != nil {
			return err
		}

		oldStatus = t.Status()
		changed, err = t.Transition(cmd.To, cmd.Suspension)
		if err != nil {
			return err
		}
		result = t

		if !changed {
			return nil
		}

		if err := uc.tenantRepo.Update(txCtx, t); err != nil {
			return err
		}

		history, err := tenant.NewStatusHistory(t.ID(), oldStatus, t.Status(), cmd.Reason, cmd.TriggeredBy)
		if err != nil {
			return err
		}
		if cmd.ReferenceID != "" {
			history.SetReferenceID(cmd.ReferenceID)
		}
		if cmd.To == vo.StatusSuspended {
			history.AddMetadata("suspension_type", t.SuspensionType().String())
		}

		return uc.historyRepo.Append(txCtx, history)
	})
	if err != nil {
		uc.logger.Errorw("tenant status transition failed",
			"tenant_id", cmd.TenantID,
			"to", cmd.To,
			"error", err)
		return nil, err
	}

	if !changed {
		uc.logger.Debugw("tenant status transition was a no-op",
			"tenant_id", cmd.TenantID,
			"status", cmd.To)
		return result, nil
	}

	uc.logger.Infow("tenant status transitioned",
		"tenant_id", cmd.TenantID,
		"from", oldStatus,
		"to", result.Status(),
		"triggered_by", cmd.TriggeredBy,
		"access_level", result.AccessLevel())

	uc.hooks.Dispatch(tenant.NewStatusChangedEvent(result, oldStatus, cmd.Reason, cmd.TriggeredBy))

	return result, nil
}
