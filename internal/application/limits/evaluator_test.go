package limits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/domain/plan"
	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

type stubPlanRepo struct {
	byID   map[uint]*plan.Plan
	bySlug map[string]*plan.Plan
}

func (r *stubPlanRepo) Create(ctx context.Context, p *plan.Plan) error { return nil }
func (r *stubPlanRepo) Update(ctx context.Context, p *plan.Plan) error { return nil }
func (r *stubPlanRepo) List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	return nil, nil
}

func (r *stubPlanRepo) GetByID(ctx context.Context, planID uint) (*plan.Plan, error) {
	if p, ok := r.byID[planID]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("plan not found")
}

func (r *stubPlanRepo) GetBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	if p, ok := r.bySlug[slug]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("plan not found")
}

type stubCounter int64

func (c stubCounter) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	return int64(c), nil
}

func makePlan(t *testing.T, id uint, slug string, maxVehicles int64, features map[string]interface{}) *plan.Plan {
	t.Helper()
	p, err := plan.ReconstructPlan(plan.PlanReconstructParams{
		ID:          id,
		SID:         "pln_" + slug,
		Slug:        slug,
		Name:        slug,
		MaxVehicles: maxVehicles,
		Features:    features,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	return p
}

func makeTenant(t *testing.T, planID *uint, tier string) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.ReconstructTenant(tenant.TenantReconstructParams{
		ID:        42,
		SID:       "tnt_limits1",
		Name:      "Limit Motors",
		PlanID:    planID,
		PlanTier:  tier,
		Status:    vo.StatusActive,
		Version:   1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return tn
}

func TestEvaluator_ResolvePlan(t *testing.T) {
	fk := makePlan(t, 7, "pro", 100, nil)
	tier := makePlan(t, 8, "starter", 10, nil)
	repo := &stubPlanRepo{
		byID:   map[uint]*plan.Plan{7: fk},
		bySlug: map[string]*plan.Plan{"starter": tier},
	}
	e := NewEvaluator(repo, nil, logger.NewNop())
	ctx := context.Background()

	t.Run("direct FK wins over tier", func(t *testing.T) {
		planID := uint(7)
		got, err := e.ResolvePlan(ctx, makeTenant(t, &planID, "starter"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "pro", got.Slug())
	})

	t.Run("missing FK falls back to tier", func(t *testing.T) {
		planID := uint(999)
		got, err := e.ResolvePlan(ctx, makeTenant(t, &planID, "starter"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "starter", got.Slug())
	})

	t.Run("nothing resolves", func(t *testing.T) {
		got, err := e.ResolvePlan(ctx, makeTenant(t, nil, "ghost"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestEvaluator_AssertCanCreate(t *testing.T) {
	p := makePlan(t, 7, "pro", 3, nil)
	repo := &stubPlanRepo{byID: map[uint]*plan.Plan{7: p}}
	planID := uint(7)
	tn := makeTenant(t, &planID, "")
	ctx := context.Background()

	t.Run("under the limit", func(t *testing.T) {
		e := NewEvaluator(repo, map[plan.LimitKind]Counter{plan.LimitVehicles: stubCounter(2)}, logger.NewNop())
		assert.NoError(t, e.AssertCanCreate(ctx, tn, plan.LimitVehicles))
	})

	t.Run("at the limit", func(t *testing.T) {
		e := NewEvaluator(repo, map[plan.LimitKind]Counter{plan.LimitVehicles: stubCounter(3)}, logger.NewNop())
		err := e.AssertCanCreate(ctx, tn, plan.LimitVehicles)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeLimitReached))
	})

	t.Run("unlimited never counts", func(t *testing.T) {
		unlimited := makePlan(t, 9, "fleet", plan.Unlimited, nil)
		unlRepo := &stubPlanRepo{byID: map[uint]*plan.Plan{9: unlimited}}
		unlID := uint(9)
		// No counter registered at all: unlimited short-circuits before counting.
		e := NewEvaluator(unlRepo, nil, logger.NewNop())
		assert.NoError(t, e.AssertCanCreate(ctx, makeTenant(t, &unlID, ""), plan.LimitVehicles))
	})

	t.Run("unresolved plan fails closed", func(t *testing.T) {
		e := NewEvaluator(&stubPlanRepo{}, nil, logger.NewNop())
		err := e.AssertCanCreate(ctx, makeTenant(t, nil, "ghost"), plan.LimitVehicles)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeLimitReached))
	})
}

func TestEvaluator_AssertFeatureEnabled(t *testing.T) {
	p := makePlan(t, 7, "pro", 10, map[string]interface{}{
		plan.FeatureStockTransfer: true,
	})
	repo := &stubPlanRepo{byID: map[uint]*plan.Plan{7: p}}
	planID := uint(7)
	tn := makeTenant(t, &planID, "")
	e := NewEvaluator(repo, nil, logger.NewNop())
	ctx := context.Background()

	assert.NoError(t, e.AssertFeatureEnabled(ctx, tn, plan.FeatureStockTransfer))

	err := e.AssertFeatureEnabled(ctx, tn, plan.FeatureAPIAccess)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFeatureDisabled))

	err = e.AssertFeatureEnabled(ctx, makeTenant(t, nil, "ghost"), plan.FeatureStockTransfer)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFeatureDisabled))
}
