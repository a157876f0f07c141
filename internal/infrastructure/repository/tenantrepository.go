package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// TenantRepositoryImpl implements the tenant.Repository interface
type TenantRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewTenantRepository creates a new tenant repository instance
func NewTenantRepository(database *gorm.DB, logger logger.Interface) tenant.Repository {
	return &TenantRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a new tenant
func (r *TenantRepositoryImpl) Create(ctx context.Context, t *tenant.Tenant) error {
	model := tenantToModel(t)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("tenant already exists")
		}
		r.logger.Errorw("failed to create tenant", "sid", t.SID(), "error", err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set tenant ID: %w", err)
	}

	r.logger.Infow("tenant created", "id", model.ID, "sid", model.SID, "status", model.Status)
	return nil
}

// GetByID fetches a tenant by numeric ID
func (r *TenantRepositoryImpl) GetByID(ctx context.Context, tenantID uint) (*tenant.Tenant, error) {
	var model models.TenantModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("tenant not found")
		}
		r.logger.Errorw("failed to get tenant", "id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenantToDomain(&model)
}

// GetBySID fetches a tenant by its public SID
func (r *TenantRepositoryImpl) GetBySID(ctx context.Context, sid string) (*tenant.Tenant, error) {
	var model models.TenantModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("tenant not found")
		}
		r.logger.Errorw("failed to get tenant", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenantToDomain(&model)
}

// Update persists aggregate state with optimistic locking on version.
func (r *TenantRepositoryImpl) Update(ctx context.Context, t *tenant.Tenant) error {
	model := tenantToModel(t)

	tx := db.GetTxFromContext(ctx, r.db)
	// Optimistic lock: the aggregate bumps version on every mutation, so a
	// stale writer whose version is not ahead of the stored one loses.
	result := tx.Model(&models.TenantModel{}).
		Where("id = ? AND version < ?", t.ID(), t.Version()).
		Updates(map[string]interface{}{
			"name":                  model.Name,
			"plan_id":               model.PlanID,
			"plan_tier":             model.PlanTier,
			"status":                model.Status,
			"suspension_type":       model.SuspensionType,
			"trial_ends_at":         model.TrialEndsAt,
			"subscription_ends_at":  model.SubscriptionEndsAt,
			"scheduled_deletion_at": model.ScheduledDeletionAt,
			"version":               model.Version,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update tenant", "id", t.ID(), "error", result.Error)
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("tenant was modified concurrently")
	}

	if t.IsDeleted() && t.DeletedAt() != nil {
		if err := tx.Model(&models.TenantModel{}).
			Where("id = ?", t.ID()).
			Update("deleted_at", *t.DeletedAt()).Error; err != nil {
			r.logger.Errorw("failed to soft-delete tenant", "id", t.ID(), "error", err)
			return fmt.Errorf("failed to soft-delete tenant: %w", err)
		}
	}

	return nil
}

// List returns tenants ordered by creation, newest first
func (r *TenantRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*tenant.Tenant, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.TenantModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	var rows []models.TenantModel
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list tenants", "error", err)
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	tenants := make([]*tenant.Tenant, 0, len(rows))
	for i := range rows {
		t, err := tenantToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, t)
	}
	return tenants, total, nil
}

// ListLapsed returns tenants whose trial or paid period lapsed before now and
// that have no deletion scheduled yet. The scheduled_deletion_at IS NULL
// precondition keeps repeated sweeps from re-processing the same tenant.
func (r *TenantRepositoryImpl) ListLapsed(ctx context.Context, now time.Time, limit int) ([]*tenant.Tenant, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TenantModel
	err := tx.
		Where("scheduled_deletion_at IS NULL").
		Where("status IN ?", []string{vo.StatusTrial.String(), vo.StatusActive.String(), vo.StatusGrace.String()}).
		Where("COALESCE(subscription_ends_at, trial_ends_at) < ?", now).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list lapsed tenants", "error", err)
		return nil, fmt.Errorf("failed to list lapsed tenants: %w", err)
	}

	tenants := make([]*tenant.Tenant, 0, len(rows))
	for i := range rows {
		t, convErr := tenantToDomain(&rows[i])
		if convErr != nil {
			return nil, convErr
		}
		tenants = append(tenants, t)
	}
	return tenants, nil
}

// ListPastScheduledDeletion returns tenants whose scheduled deletion date has
// passed and that are not yet soft-deleted.
func (r *TenantRepositoryImpl) ListPastScheduledDeletion(ctx context.Context, now time.Time, limit int) ([]*tenant.Tenant, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TenantModel
	err := tx.
		Where("scheduled_deletion_at IS NOT NULL AND scheduled_deletion_at < ?", now).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list tenants past scheduled deletion", "error", err)
		return nil, fmt.Errorf("failed to list tenants past scheduled deletion: %w", err)
	}

	tenants := make([]*tenant.Tenant, 0, len(rows))
	for i := range rows {
		t, convErr := tenantToDomain(&rows[i])
		if convErr != nil {
			return nil, convErr
		}
		tenants = append(tenants, t)
	}
	return tenants, nil
}

// HardDelete permanently removes the tenant row. The surrounding use case
// deletes owned entities in the same transaction before calling this.
func (r *TenantRepositoryImpl) HardDelete(ctx context.Context, tenantID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Unscoped().Delete(&models.TenantModel{}, tenantID)
	if result.Error != nil {
		r.logger.Errorw("failed to hard-delete tenant", "id", tenantID, "error", result.Error)
		return fmt.Errorf("failed to hard-delete tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("tenant not found")
	}

	r.logger.Infow("tenant hard-deleted", "id", tenantID)
	return nil
}

func tenantToModel(t *tenant.Tenant) *models.TenantModel {
	model := &models.TenantModel{
		ID:                  t.ID(),
		SID:                 t.SID(),
		Name:                t.Name(),
		PlanID:              t.PlanID(),
		PlanTier:            t.PlanTier(),
		Status:              t.Status().String(),
		SuspensionType:      t.SuspensionType().String(),
		TrialEndsAt:         t.TrialEndsAt(),
		SubscriptionEndsAt:  t.SubscriptionEndsAt(),
		ScheduledDeletionAt: t.ScheduledDeletionAt(),
		Version:             t.Version(),
		CreatedAt:           t.CreatedAt(),
		UpdatedAt:           t.UpdatedAt(),
	}
	if d := t.DeletedAt(); d != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *d, Valid: true}
	}
	return model
}

func tenantToDomain(m *models.TenantModel) (*tenant.Tenant, error) {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		d := m.DeletedAt.Time
		deletedAt = &d
	}

	t, err := tenant.ReconstructTenant(tenant.TenantReconstructParams{
		ID:                  m.ID,
		SID:                 m.SID,
		Name:                m.Name,
		PlanID:              m.PlanID,
		PlanTier:            m.PlanTier,
		Status:              vo.SubscriptionStatus(m.Status),
		SuspensionType:      vo.SuspensionType(m.SuspensionType),
		TrialEndsAt:         m.TrialEndsAt,
		SubscriptionEndsAt:  m.SubscriptionEndsAt,
		ScheduledDeletionAt: m.ScheduledDeletionAt,
		DeletedAt:           deletedAt,
		Version:             m.Version,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct tenant: %w", err)
	}
	return t, nil
}
