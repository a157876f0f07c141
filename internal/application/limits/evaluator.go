package limits

import (
	"context"

	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// Counter reports how many entities of one kind a tenant currently owns.
// Repositories satisfy it with their CountByTenant methods.
type Counter interface {
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
}

// Evaluator answers "may this tenant create one more X" and "is feature Y
// enabled" against the tenant's plan. Resolution order: direct plan FK first,
// then the legacy tier slug. A tenant whose plan cannot be resolved gets
// nothing: limit zero, every feature disabled.
type Evaluator struct {
	planRepo plan.Repository
	counters map[plan.LimitKind]Counter
	logger   logger.Interface
}

func NewEvaluator(planRepo plan.Repository, counters map[plan.LimitKind]Counter, logger logger.Interface) *Evaluator {
	return &Evaluator{
		planRepo: planRepo,
		counters: counters,
		logger:   logger,
	}
}

// ResolvePlan finds the plan governing the tenant, or nil when none resolves.
// A nil plan is not an error: callers fail closed on it.
func (e *Evaluator) ResolvePlan(ctx context.Context, t *tenant.Tenant) (*plan.Plan, error) {
	if planID := t.PlanID(); planID != nil {
		p, err := e.planRepo.GetByID(ctx, *planID)
		if err == nil {
			return p, nil
		}
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
		e.logger.Warnw("tenant references missing plan, falling back to tier",
			"tenant_id", t.ID(),
			"plan_id", *planID)
	}

	if tier := t.PlanTier(); tier != "" {
		p, err := e.planRepo.GetBySlug(ctx, tier)
		if err == nil {
			return p, nil
		}
		if !errors.IsNotFoundError(err) {
			return nil, err
		}
	}

	return nil, nil
}

// AssertCanCreate checks the tenant's current count of kind against the plan
// limit and returns a limit-reached error when creation must be refused.
func (e *Evaluator) AssertCanCreate(ctx context.Context, t *tenant.Tenant, kind plan.LimitKind) error {
	p, err := e.ResolvePlan(ctx, t)
	if err != nil {
		return err
	}
	if p == nil {
		e.logger.Warnw("no plan resolved for tenant, refusing creation",
			"tenant_id", t.ID(),
			"kind", kind)
		return errors.NewLimitReachedError(string(kind), 0)
	}

	limit, err := p.LimitFor(kind)
	if err != nil {
		return err
	}
	if limit == plan.Unlimited {
		return nil
	}

	counter, ok := e.counters[kind]
	if !ok {
		return errors.NewInternalError("no counter registered for limit kind: " + string(kind))
	}
	count, err := counter.CountByTenant(ctx, t.ID())
	if err != nil {
		return err
	}

	if count >= limit {
		return errors.NewLimitReachedError(string(kind), limit)
	}
	return nil
}

// AssertFeatureEnabled returns a feature-disabled error unless the tenant's
// plan grants the feature. Unknown keys and unresolved plans both deny.
func (e *Evaluator) AssertFeatureEnabled(ctx context.Context, t *tenant.Tenant, key string) error {
	p, err := e.ResolvePlan(ctx, t)
	if err != nil {
		return err
	}
	if p == nil || !p.HasFeature(key) {
		return errors.NewFeatureDisabledError(key)
	}
	return nil
}
