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

// VehicleRepositoryImpl implements dealership.VehicleRepository. Every scoped
// method applies query.TenantScope with the caller-supplied tenant ID; the
// two Unscoped methods exist only for cross-tenant transfer resolution.
type VehicleRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewVehicleRepository creates a new vehicle repository instance
func NewVehicleRepository(database *gorm.DB, logger logger.Interface) dealership.VehicleRepository {
	return &VehicleRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a vehicle, stamping the authoritative tenant ID. A tenant
// ID smuggled in through the entity is overwritten.
func (r *VehicleRepositoryImpl) Create(ctx context.Context, tenantID uint, v *dealership.Vehicle) error {
	model := vehicleToModel(v)
	model.TenantID = tenantID

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("vehicle already exists")
		}
		r.logger.Errorw("failed to create vehicle", "tenant_id", tenantID, "vin", v.VIN(), "error", err)
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	if err := v.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set vehicle ID: %w", err)
	}

	r.logger.Infow("vehicle created", "id", model.ID, "sid", model.SID, "tenant_id", tenantID)
	return nil
}

// GetBySID fetches a vehicle within the tenant's scope. A SID belonging to
// another tenant comes back as not-found, indistinguishable from absence.
func (r *VehicleRepositoryImpl) GetBySID(ctx context.Context, tenantID uint, sid string) (*dealership.Vehicle, error) {
	var model models.VehicleModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("vehicle not found")
		}
		r.logger.Errorw("failed to get vehicle", "tenant_id", tenantID, "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return vehicleToDomain(&model)
}

// List returns the tenant's vehicles matching the filter
func (r *VehicleRepositoryImpl) List(ctx context.Context, tenantID uint, f dealership.VehicleFilter) ([]*dealership.Vehicle, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	base := tx.Model(&models.VehicleModel{}).Scopes(query.TenantScope(tenantID))
	if f.Status != "" {
		base = base.Where("status = ?", string(f.Status))
	}
	if f.BranchID != nil {
		base = base.Where("branch_id = ?", *f.BranchID)
	}
	if f.Make != "" {
		base = base.Where("make = ?", f.Make)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var rows []models.VehicleModel
	if err := base.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list vehicles", "tenant_id", tenantID, "error", err)
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*dealership.Vehicle, 0, len(rows))
	for i := range rows {
		v, err := vehicleToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, total, nil
}

// Update persists vehicle state within the tenant's scope
func (r *VehicleRepositoryImpl) Update(ctx context.Context, tenantID uint, v *dealership.Vehicle) error {
	model := vehicleToModel(v)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.VehicleModel{}).
		Scopes(query.TenantScope(tenantID)).
		Where("id = ?", v.ID()).
		Updates(map[string]interface{}{
			"branch_id":   model.BranchID,
			"vin":         model.VIN,
			"make":        model.Make,
			"model":       model.Model,
			"year":        model.Year,
			"price_cents": model.PriceCents,
			"mileage":     model.Mileage,
			"status":      model.Status,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update vehicle", "tenant_id", tenantID, "id", v.ID(), "error", result.Error)
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("vehicle not found")
	}

	return nil
}

// Delete soft-deletes a vehicle within the tenant's scope
func (r *VehicleRepositoryImpl) Delete(ctx context.Context, tenantID uint, sid string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("sid = ?", sid).
		Delete(&models.VehicleModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete vehicle", "tenant_id", tenantID, "sid", sid, "error", result.Error)
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("vehicle not found")
	}

	r.logger.Infow("vehicle deleted", "tenant_id", tenantID, "sid", sid)
	return nil
}

// CountByTenant counts live vehicles for limit evaluation
func (r *VehicleRepositoryImpl) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.VehicleModel{}).
		Scopes(query.TenantScope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return count, nil
}

// DeleteByTenant permanently removes all of a tenant's vehicles (cascade)
func (r *VehicleRepositoryImpl) DeleteByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Unscoped().
		Scopes(query.TenantScope(tenantID)).
		Delete(&models.VehicleModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tenant vehicles", "tenant_id", tenantID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete tenant vehicles: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetByIDUnscoped reads a vehicle across tenant boundaries. Transfer
// resolution only.
func (r *VehicleRepositoryImpl) GetByIDUnscoped(ctx context.Context, vehicleID uint) (*dealership.Vehicle, error) {
	var model models.VehicleModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, vehicleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("vehicle not found")
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return vehicleToDomain(&model)
}

// UpdateUnscoped writes a vehicle across tenant boundaries, including its
// tenant_id. Transfer resolution only.
func (r *VehicleRepositoryImpl) UpdateUnscoped(ctx context.Context, v *dealership.Vehicle) error {
	model := vehicleToModel(v)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.VehicleModel{}).
		Where("id = ?", v.ID()).
		Updates(map[string]interface{}{
			"tenant_id":   model.TenantID,
			"branch_id":   model.BranchID,
			"status":      model.Status,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update vehicle unscoped", "id", v.ID(), "error", result.Error)
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("vehicle not found")
	}

	return nil
}

func vehicleToModel(v *dealership.Vehicle) *models.VehicleModel {
	return &models.VehicleModel{
		ID:         v.ID(),
		SID:        v.SID(),
		TenantID:   v.TenantID(),
		BranchID:   v.BranchID(),
		VIN:        v.VIN(),
		Make:       v.Make(),
		Model:      v.Model(),
		Year:       v.Year(),
		PriceCents: v.PriceCents(),
		Mileage:    v.Mileage(),
		Status:     string(v.Status()),
		CreatedAt:  v.CreatedAt(),
		UpdatedAt:  v.UpdatedAt(),
	}
}

func vehicleToDomain(m *models.VehicleModel) (*dealership.Vehicle, error) {
	v, err := dealership.ReconstructVehicle(dealership.VehicleReconstructParams{
		ID:         m.ID,
		SID:        m.SID,
		TenantID:   m.TenantID,
		BranchID:   m.BranchID,
		VIN:        m.VIN,
		Make:       m.Make,
		Model:      m.Model,
		Year:       m.Year,
		PriceCents: m.PriceCents,
		Mileage:    m.Mileage,
		Status:     dealership.VehicleStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct vehicle: %w", err)
	}
	return v, nil
}
