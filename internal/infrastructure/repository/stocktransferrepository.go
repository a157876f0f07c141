package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"motordesk/internal/domain/dealership"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
)

// StockTransferRepositoryImpl implements dealership.StockTransferRepository.
// Transfers are the sanctioned cross-tenant records: queries here match on
// either side of the transfer instead of a single tenant scope.
type StockTransferRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewStockTransferRepository creates a new stock transfer repository instance
func NewStockTransferRepository(database *gorm.DB, logger logger.Interface) dealership.StockTransferRepository {
	return &StockTransferRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Create persists a new transfer
func (r *StockTransferRepositoryImpl) Create(ctx context.Context, t *dealership.StockTransfer) error {
	model := transferToModel(t)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create stock transfer",
			"vehicle_id", t.VehicleID(),
			"from_tenant_id", t.FromTenantID(),
			"to_tenant_id", t.ToTenantID(),
			"error", err)
		return fmt.Errorf("failed to create stock transfer: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set transfer ID: %w", err)
	}

	r.logger.Infow("stock transfer created",
		"id", model.ID,
		"sid", model.SID,
		"from_tenant_id", model.FromTenantID,
		"to_tenant_id", model.ToTenantID)
	return nil
}

// GetBySID fetches a transfer by SID. Callers authorize by checking the
// principal's tenant against FromTenantID/ToTenantID.
func (r *StockTransferRepositoryImpl) GetBySID(ctx context.Context, sid string) (*dealership.StockTransfer, error) {
	var model models.StockTransferModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("stock transfer not found")
		}
		r.logger.Errorw("failed to get stock transfer", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get stock transfer: %w", err)
	}
	return transferToDomain(&model)
}

// ListInvolving returns transfers where the tenant is sender or receiver
func (r *StockTransferRepositoryImpl) ListInvolving(ctx context.Context, tenantID uint, since time.Time) ([]*dealership.StockTransfer, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.StockTransferModel
	if err := tx.
		Where("(from_tenant_id = ? OR to_tenant_id = ?) AND created_at >= ?", tenantID, tenantID, since).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list stock transfers", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list stock transfers: %w", err)
	}

	transfers := make([]*dealership.StockTransfer, 0, len(rows))
	for i := range rows {
		t, err := transferToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

// Update persists transfer state
func (r *StockTransferRepositoryImpl) Update(ctx context.Context, t *dealership.StockTransfer) error {
	model := transferToModel(t)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.StockTransferModel{}).
		Where("id = ?", t.ID()).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"resolved_by": model.ResolvedBy,
			"resolved_at": model.ResolvedAt,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update stock transfer", "id", t.ID(), "error", result.Error)
		return fmt.Errorf("failed to update stock transfer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("stock transfer not found")
	}

	return nil
}

// DeleteByTenant permanently removes transfers involving the tenant (cascade)
func (r *StockTransferRepositoryImpl) DeleteByTenant(ctx context.Context, tenantID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Where("from_tenant_id = ? OR to_tenant_id = ?", tenantID, tenantID).
		Delete(&models.StockTransferModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tenant stock transfers", "tenant_id", tenantID, "error", result.Error)
		return 0, fmt.Errorf("failed to delete tenant stock transfers: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func transferToModel(t *dealership.StockTransfer) *models.StockTransferModel {
	return &models.StockTransferModel{
		ID:           t.ID(),
		SID:          t.SID(),
		VehicleID:    t.VehicleID(),
		FromTenantID: t.FromTenantID(),
		ToTenantID:   t.ToTenantID(),
		InitiatedBy:  t.InitiatedBy(),
		ResolvedBy:   t.ResolvedBy(),
		Status:       string(t.Status()),
		Reason:       t.Reason(),
		ResolvedAt:   t.ResolvedAt(),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
	}
}

func transferToDomain(m *models.StockTransferModel) (*dealership.StockTransfer, error) {
	t, err := dealership.ReconstructStockTransfer(dealership.StockTransferReconstructParams{
		ID:           m.ID,
		SID:          m.SID,
		VehicleID:    m.VehicleID,
		FromTenantID: m.FromTenantID,
		ToTenantID:   m.ToTenantID,
		InitiatedBy:  m.InitiatedBy,
		ResolvedBy:   m.ResolvedBy,
		Status:       dealership.TransferStatus(m.Status),
		Reason:       m.Reason,
		ResolvedAt:   m.ResolvedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct stock transfer: %w", err)
	}
	return t, nil
}
