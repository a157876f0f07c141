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

// CustomerRepositoryImpl implements dealership.CustomerRepository
type CustomerRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(database *gorm.DB, logger logger.Interface) dealership.CustomerRepository {
	return &CustomerRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a customer, stamping the authoritative tenant ID
func (r *CustomerRepositoryImpl) Create(ctx context.Context, tenantID uint, c *dealership.Customer) error {
	model := customerToModel(c)
	model.TenantID = tenantID

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("customer already exists")
		}
		r.logger.Errorw("failed to create customer", "tenant_id", tenantID, "error", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}

	if err := c.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set customer ID: %w", err)
	}

	r.logger.Infow("customer created", "id", model.ID, "sid", model.SID, "tenant_id", tenantID)
	return nil
}

// GetBySID fetches a customer within the tenant's scope
func (r *CustomerRepositoryImpl) GetBySID(ctx context.Context, tenantID uint, sid string) (*dealership.Customer, error) {
	var model models.CustomerModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("customer not found")
		}
		r.logger.Errorw("failed to get customer", "tenant_id", tenantID, "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customerToDomain(&model)
}

// List returns the tenant's customers
func (r *CustomerRepositoryImpl) List(ctx context.Context, tenantID uint, page, pageSize int) ([]*dealership.Customer, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.CustomerModel{}).
		Scopes(query.TenantScope(tenantID)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var rows []models.CustomerModel
	if err := tx.
		Scopes(query.TenantScope(tenantID)).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list customers", "tenant_id", tenantID, "error", err)
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]*dealership.Customer, 0, len(rows))
	for i := range rows {
		c, err := customerToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, nil
}

// Update persists customer state within the tenant's scope
func (r *CustomerRepositoryImpl) Update(ctx context.Context, tenantID uint, c *dealership.Customer) error {
	model := customerToModel(c)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.CustomerModel{}).
		Scopes(query.TenantScope(tenantID)).
		Where("id = ?", c.ID()).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"email":      model.Email,
			"phone":      model.Phone,
			"notes":      model.Notes,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update customer", "tenant_id", tenantID, "id", c.ID(), "error", result.Error)
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("customer not found")
	}

	return nil
}

// Delete soft-deletes a customer within the tenant's scope
func (r *CustomerRepositoryImpl) Delete(ctx context.Context, tenantID uint, sid string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Scopes(query.TenantScope(tenantID)).
		Where("sid = ?", sid).
		Delete(&models.CustomerModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete customer", "tenant_id", tenantID, "sid", sid, "error", result.Error)
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("customer not found")
	}

	r.logger.Infow("customer deleted", "tenant_id", tenantID, "sid", sid)
	return nil
}

// CountByTenant counts live customers for limit evaluation
func (r *CustomerRepositoryImpl) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.CustomerModel{}).
		Scopes(query.TenantScope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// DeleteByTenant permanently removes all of a tenant's customers (cascade)
func (r *CustomerRepositoryImpl) DeleteByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Unscoped().
		Scopes(query.TenantScope(tenantID)).
		Delete(&models.CustomerModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tenant customers", "tenant_id", tenantID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete tenant customers: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func customerToModel(c *dealership.Customer) *models.CustomerModel {
	return &models.CustomerModel{
		ID:        c.ID(),
		SID:       c.SID(),
		TenantID:  c.TenantID(),
		Name:      c.Name(),
		Email:     c.Email(),
		Phone:     c.Phone(),
		Notes:     c.Notes(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func customerToDomain(m *models.CustomerModel) (*dealership.Customer, error) {
	c, err := dealership.ReconstructCustomer(dealership.CustomerReconstructParams{
		ID:        m.ID,
		SID:       m.SID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct customer: %w", err)
	}
	return c, nil
}
