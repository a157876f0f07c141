package usecases

import (
	"context"
	"time"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/logger"
)

const sweepBatchSize = 200

// SuspendLapsedTenantsJob is sweep phase one. For every tenant whose trial or
// paid period has lapsed:
//   - trial and active tenants drop into grace
//   - grace tenants past the grace window are soft-suspended and get a
//     deletion date scheduled
//
// Every mutation goes through the transition use case, so a sweep that runs
// twice appends no duplicate history rows: the second pass sees either a
// changed status or a no-op self-transition.
type SuspendLapsedTenantsJob struct {
	tenantRepo           tenant.Repository
	transition           *TransitionTenantStatusUseCase
	graceDays            int
	deletionOffsetMonths int
	logger               logger.Interface
}

func NewSuspendLapsedTenantsJob(
	tenantRepo tenant.Repository,
	transition *TransitionTenantStatusUseCase,
	graceDays int,
	deletionOffsetMonths int,
	logger logger.Interface,
) *SuspendLapsedTenantsJob {
	return &SuspendLapsedTenantsJob{
		tenantRepo:           tenantRepo,
		transition:           transition,
		graceDays:            graceDays,
		deletionOffsetMonths: deletionOffsetMonths,
		logger:               logger,
	}
}

func (j *SuspendLapsedTenantsJob) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()

	lapsed, err := j.tenantRepo.ListLapsed(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, t := range lapsed {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		changed, err := j.process(ctx, t, now)
		if err != nil {
			// One bad tenant must not stall the sweep.
			j.logger.Errorw("failed to process lapsed tenant",
				"tenant_id", t.ID(),
				"status", t.Status(),
				"error", err)
			continue
		}
		if changed {
			processed++
		}
	}

	return processed, nil
}

func (j *SuspendLapsedTenantsJob) process(ctx context.Context, t *tenant.Tenant, now time.Time) (bool, error) {
	switch t.Status() {
	case vo.StatusTrial, vo.StatusActive:
		_, err := j.transition.Execute(ctx, TransitionTenantStatusCommand{
			TenantID:    t.ID(),
			To:          vo.StatusGrace,
			Reason:      "subscription lapsed",
			TriggeredBy: tenant.TriggeredBySweeper,
		})
		return err == nil, err

	case vo.StatusGrace:
		exp := t.Expiry()
		if exp == nil || now.Before(exp.AddDate(0, 0, j.graceDays)) {
			return false, nil
		}

		suspended, err := j.transition.Execute(ctx, TransitionTenantStatusCommand{
			TenantID:    t.ID(),
			To:          vo.StatusSuspended,
			Suspension:  vo.SuspensionSoft,
			Reason:      "grace period expired",
			TriggeredBy: tenant.TriggeredBySweeper,
		})
		if err != nil {
			return false, err
		}

		suspended.ScheduleDeletion(exp.AddDate(0, j.deletionOffsetMonths, 0))
		if err := j.tenantRepo.Update(ctx, suspended); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// PurgeScheduledTenantsJob is sweep phase two: soft-delete tenants whose
// scheduled deletion date has passed. Already-deleted tenants never come back
// from the listing, so re-runs are no-ops.
type PurgeScheduledTenantsJob struct {
	tenantRepo tenant.Repository
	logger     logger.Interface
}

func NewPurgeScheduledTenantsJob(tenantRepo tenant.Repository, logger logger.Interface) *PurgeScheduledTenantsJob {
	return &PurgeScheduledTenantsJob{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

func (j *PurgeScheduledTenantsJob) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()

	due, err := j.tenantRepo.ListPastScheduledDeletion(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, t := range due {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		t.SoftDelete(now)
		if err := j.tenantRepo.Update(ctx, t); err != nil {
			j.logger.Errorw("failed to soft-delete tenant",
				"tenant_id", t.ID(),
				"error", err)
			continue
		}

		j.logger.Infow("tenant soft-deleted by sweeper",
			"tenant_id", t.ID(),
			"sid", t.SID())
		processed++
	}

	return processed, nil
}
