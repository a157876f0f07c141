package usecases

import (
	"context"
	"time"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	TenantID    uint
	EndsAt      time.Time
	ReferenceID string
	TriggeredBy string
}

// RenewSubscriptionUseCase handles a settled invoice: extend the paid-through
// date, reactivate the tenant and cancel any pending deletion, all in one
// transaction. Reactivation goes through the transition use case so
// grace/suspended tenants get their audit row; an already-active tenant just
// has its period extended. A tenant that cannot reactivate (cancelled) keeps
// nothing: the extension rolls back with the failed transition.
type RenewSubscriptionUseCase struct {
	tenantRepo tenant.Repository
	transition *TransitionTenantStatusUseCase
	txManager  *db.TransactionManager
	logger     logger.Interface
}

func NewRenewSubscriptionUseCase(
	tenantRepo tenant.Repository,
	transition *TransitionTenantStatusUseCase,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		tenantRepo: tenantRepo,
		transition: transition,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*tenant.Tenant, error) {
	triggeredBy := cmd.TriggeredBy
	if triggeredBy == "" {
		triggeredBy = tenant.TriggeredByBilling
	}

	var result *tenant.Tenant
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.tenantRepo.GetByID(txCtx, cmd.TenantID)
		if err != nil {
			return err
		}

		if err := t.ExtendSubscription(cmd.EndsAt); err != nil {
			return err
		}
		t.ClearScheduledDeletion()

		if err := uc.tenantRepo.Update(txCtx, t); err != nil {
			return err
		}

		result, err = uc.transition.Execute(txCtx, TransitionTenantStatusCommand{
			TenantID:    cmd.TenantID,
			To:          vo.StatusActive,
			Reason:      "subscription renewed",
			TriggeredBy: triggeredBy,
			ReferenceID: cmd.ReferenceID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription renewed",
		"tenant_id", cmd.TenantID,
		"ends_at", cmd.EndsAt,
		"status", result.Status())

	return result, nil
}
