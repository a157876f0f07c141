package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"motordesk/internal/domain/plan"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// PlanRepositoryImpl implements the plan.Repository interface
type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(database *gorm.DB, logger logger.Interface) plan.Repository {
	return &PlanRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a new plan
func (r *PlanRepositoryImpl) Create(ctx context.Context, p *plan.Plan) error {
	model, err := planToModel(p)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("plan slug already exists")
		}
		r.logger.Errorw("failed to create plan", "slug", p.Slug(), "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set plan ID: %w", err)
	}

	r.logger.Infow("plan created", "id", model.ID, "slug", model.Slug)
	return nil
}

// GetByID fetches a plan by numeric ID
func (r *PlanRepositoryImpl) GetByID(ctx context.Context, planID uint) (*plan.Plan, error) {
	var model models.PlanModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, planID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("plan not found")
		}
		r.logger.Errorw("failed to get plan", "id", planID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return planToDomain(&model)
}

// GetBySlug fetches a plan by its slug (legacy tier bridge)
func (r *PlanRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	var model models.PlanModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("slug = ?", strings.ToLower(slug)).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("plan not found")
		}
		r.logger.Errorw("failed to get plan", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return planToDomain(&model)
}

// List returns plans, optionally only active ones
func (r *PlanRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Order("id")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []models.PlanModel
	if err := query.Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]*plan.Plan, 0, len(rows))
	for i := range rows {
		p, err := planToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Update persists plan state
func (r *PlanRepositoryImpl) Update(ctx context.Context, p *plan.Plan) error {
	model, err := planToModel(p)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.PlanModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"name":              model.Name,
			"max_vehicles":      model.MaxVehicles,
			"max_users":         model.MaxUsers,
			"max_branches":      model.MaxBranches,
			"max_customers":     model.MaxCustomers,
			"max_group_members": model.MaxGroupMembers,
			"can_create_group":  model.CanCreateGroup,
			"features":          model.Features,
			"active":            model.Active,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "id", p.ID(), "error", result.Error)
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("plan not found")
	}

	return nil
}

func planToModel(p *plan.Plan) (*models.PlanModel, error) {
	var features datatypes.JSON
	if f := p.Features(); len(f) > 0 {
		raw, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan features: %w", err)
		}
		features = raw
	}

	return &models.PlanModel{
		ID:              p.ID(),
		SID:             p.SID(),
		Slug:            p.Slug(),
		Name:            p.Name(),
		MaxVehicles:     mustLimit(p, plan.LimitVehicles),
		MaxUsers:        mustLimit(p, plan.LimitUsers),
		MaxBranches:     mustLimit(p, plan.LimitBranches),
		MaxCustomers:    mustLimit(p, plan.LimitCustomers),
		MaxGroupMembers: mustLimit(p, plan.LimitGroupMembers),
		CanCreateGroup:  p.CanCreateGroup(),
		Features:        features,
		Active:          p.Active(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}, nil
}

func mustLimit(p *plan.Plan, kind plan.LimitKind) int64 {
	limit, _ := p.LimitFor(kind)
	return limit
}

func planToDomain(m *models.PlanModel) (*plan.Plan, error) {
	var features map[string]interface{}
	if len(m.Features) > 0 {
		if err := json.Unmarshal(m.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	p, err := plan.ReconstructPlan(plan.PlanReconstructParams{
		ID:              m.ID,
		SID:             m.SID,
		Slug:            m.Slug,
		Name:            m.Name,
		MaxVehicles:     m.MaxVehicles,
		MaxUsers:        m.MaxUsers,
		MaxBranches:     m.MaxBranches,
		MaxCustomers:    m.MaxCustomers,
		MaxGroupMembers: m.MaxGroupMembers,
		CanCreateGroup:  m.CanCreateGroup,
		Features:        features,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan: %w", err)
	}
	return p, nil
}
