package usecases

import (
	"context"
	"time"

	"motordesk/internal/domain/shared/events"
	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/domain/user"
	"motordesk/internal/shared/logger"
)

// LifecycleNotifier is the slice of the mail service the status-changed hook
// needs.
type LifecycleNotifier interface {
	SendGraceNoticeEmail(to, tenantName, suspendDate string) error
	SendSuspensionEmail(to, tenantName string) error
	SendCancellationEmail(to, tenantName, deletionDate string) error
}

const noticeDateLayout = "January 2, 2006"

// NewStatusChangedEmailHook builds the post-commit hook that mails the tenant
// owner when the subscription enters grace, suspension, or cancellation.
// Registered on the hook runner at startup; failures are logged by the runner
// and never affect the committed transition.
func NewStatusChangedEmailHook(
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	notifier LifecycleNotifier,
	graceDays int,
	log logger.Interface,
) events.Hook {
	return events.HookFunc{
		HookName: "lifecycle-email",
		Fn: func(event events.DomainEvent) error {
			e, ok := event.(*tenant.StatusChangedEvent)
			if !ok {
				return nil
			}
			switch e.NewStatus {
			case vo.StatusGrace, vo.StatusSuspended, vo.StatusCancelled:
			default:
				return nil
			}

			ctx := context.Background()
			t, err := tenantRepo.GetByID(ctx, e.TenantID)
			if err != nil {
				return err
			}
			owner, err := userRepo.GetOwnerByTenant(ctx, e.TenantID)
			if err != nil {
				return err
			}

			var sendErr error
			switch e.NewStatus {
			case vo.StatusGrace:
				suspendAt := time.Now().UTC().AddDate(0, 0, graceDays)
				if exp := t.Expiry(); exp != nil {
					suspendAt = exp.AddDate(0, 0, graceDays)
				}
				sendErr = notifier.SendGraceNoticeEmail(owner.Email(), t.Name(), suspendAt.Format(noticeDateLayout))
			case vo.StatusSuspended:
				sendErr = notifier.SendSuspensionEmail(owner.Email(), t.Name())
			default:
				deletionDate := "the end of the retention period"
				if d := t.ScheduledDeletionAt(); d != nil {
					deletionDate = d.Format(noticeDateLayout)
				}
				sendErr = notifier.SendCancellationEmail(owner.Email(), t.Name(), deletionDate)
			}
			if sendErr != nil {
				return sendErr
			}

			log.Infow("lifecycle notice sent",
				"tenant_id", e.TenantID,
				"status", e.NewStatus,
				"to", owner.Email())
			return nil
		},
	}
}
