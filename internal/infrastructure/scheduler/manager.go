// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"motordesk/internal/shared/biztime"
	"motordesk/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2. A single
// scheduler instance runs every registered job; singleton mode keeps an
// overrunning sweep from overlapping with its next tick.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterLifecycleSweep registers the tenant lifecycle sweep on a cron
// expression (business timezone). The sweep runs two phases:
//   - suspendLapsedJob moves lapsed tenants into grace/suspension
//   - purgeScheduledJob soft-deletes tenants past their scheduled deletion
//
// Both phases are idempotent, so an extra run after a missed tick is safe.
func (m *SchedulerManager) RegisterLifecycleSweep(
	cronExpr string,
	suspendLapsedJob BatchJob,
	purgeScheduledJob BatchJob,
) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runLifecycleSweep(ctx, suspendLapsedJob, purgeScheduledJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("tenant", "lifecycle-sweep"),
		gocron.WithName("tenant-lifecycle-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered tenant lifecycle sweep", "cron", cronExpr)
	return nil
}

func (m *SchedulerManager) runLifecycleSweep(
	ctx context.Context,
	suspendLapsedJob BatchJob,
	purgeScheduledJob BatchJob,
) {
	m.logger.Debugw("tenant lifecycle sweep started")

	startTime := biztime.NowUTC()

	// Phase 1: suspend tenants whose trial or paid subscription lapsed
	suspendedCount, err := suspendLapsedJob.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("failed to process lapsed tenants",
			"error", err,
			"duration", time.Since(startTime),
		)
	} else if suspendedCount > 0 {
		m.logger.Infow("lapsed tenants processed",
			"count", suspendedCount,
			"duration", time.Since(startTime),
		)
	}

	// Phase 2: soft-delete tenants past their scheduled deletion date
	purgedCount, err := purgeScheduledJob.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("failed to purge scheduled tenants",
			"error", err,
		)
	} else if purgedCount > 0 {
		m.logger.Infow("scheduled tenants purged",
			"count", purgedCount,
		)
	}

	m.logger.Debugw("tenant lifecycle sweep finished",
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
