package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"motordesk/internal/domain/dealership"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/query"
)

// BranchRepositoryImpl implements dealership.BranchRepository
type BranchRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewBranchRepository creates a new branch repository instance
func NewBranchRepository(database *gorm.DB, logger logger.Interface) dealership.BranchRepository {
	return &BranchRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a branch, stamping the authoritative tenant ID
func (r *BranchRepositoryImpl) Create(ctx context.Context, tenantID uint, b *dealership.Branch) error {
	model := branchToModel(b)
	model.TenantID = tenantID

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("branch already exists")
		}
		r.logger.Errorw("failed to create branch", "tenant_id", tenantID, "error", err)
		return fmt.Errorf("failed to create branch: %w", err)
	}

	if err := b.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set branch ID: %w", err)
	}

	r.logger.Infow("branch created", "id", model.ID, "sid", model.SID, "tenant_id", tenantID)
	return nil
}

// GetBySID fetches a branch within the tenant's scope
func (r *BranchRepositoryImpl) GetBySID(ctx context.Context, tenantID uint, sid string) (*dealership.Branch, error) {
	var model models.BranchModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("branch not found")
		}
		r.logger.Errorw("failed to get branch", "tenant_id", tenantID, "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return branchToDomain(&model)
}

// List returns all of the tenant's branches
func (r *BranchRepositoryImpl) List(ctx context.Context, tenantID uint) ([]*dealership.Branch, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.BranchModel
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Order("created_at").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list branches", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	branches := make([]*dealership.Branch, 0, len(rows))
	for i := range rows {
		b, err := branchToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

// Update persists branch state within the tenant's scope
func (r *BranchRepositoryImpl) Update(ctx context.Context, tenantID uint, b *dealership.Branch) error {
	model := branchToModel(b)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.BranchModel{}).
		Scopes(query.TenantScope(tenantID)).
		Where("id = ?", b.ID()).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"address":    model.Address,
			"phone":      model.Phone,
			"active":     model.Active,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update branch", "tenant_id", tenantID, "id", b.ID(), "error", result.Error)
		return fmt.Errorf("failed to update branch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("branch not found")
	}

	return nil
}

// Delete soft-deletes a branch within the tenant's scope
func (r *BranchRepositoryImpl) Delete(ctx context.Context, tenantID uint, sid string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("sid = ?", sid).
		Delete(&models.BranchModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete branch", "tenant_id", tenantID, "sid", sid, "error", result.Error)
		return fmt.Errorf("failed to delete branch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("branch not found")
	}

	r.logger.Infow("branch deleted", "tenant_id", tenantID, "sid", sid)
	return nil
}

// CountByTenant counts live branches for limit evaluation
func (r *BranchRepositoryImpl) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.BranchModel{}).
		Scopes(query.TenantScope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count branches: %w", err)
	}
	return count, nil
}

// DeleteByTenant permanently removes all of a tenant's branches (cascade)
func (r *BranchRepositoryImpl) DeleteByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Unscoped().
		Scopes(query.TenantScope(tenantID)).
		Delete(&models.BranchModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tenant branches", "tenant_id", tenantID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete tenant branches: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func branchToModel(b *dealership.Branch) *models.BranchModel {
	return &models.BranchModel{
		ID:        b.ID(),
		SID:       b.SID(),
		TenantID:  b.TenantID(),
		Name:      b.Name(),
		Address:   b.Address(),
		Phone:     b.Phone(),
		Active:    b.Active(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func branchToDomain(m *models.BranchModel) (*dealership.Branch, error) {
	b, err := dealership.ReconstructBranch(dealership.BranchReconstructParams{
		ID:        m.ID,
		SID:       m.SID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Address:   m.Address,
		Phone:     m.Phone,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct branch: %w", err)
	}
	return b, nil
}
