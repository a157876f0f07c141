package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

// TenantStatusHistoryRepositoryImpl implements tenant.HistoryRepository.
// Append-only: there is deliberately no update or delete method.
type TenantStatusHistoryRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewTenantStatusHistoryRepository creates a new history repository instance
func NewTenantStatusHistoryRepository(database *gorm.DB, logger logger.Interface) tenant.HistoryRepository {
	return &TenantStatusHistoryRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

// Append writes one audit row. Called inside the transition transaction so
// the status write and the audit row commit or roll back together.
func (r *TenantStatusHistoryRepositoryImpl) Append(ctx context.Context, h *tenant.StatusHistory) error {
	var metadata datatypes.JSON
	if md := h.Metadata(); len(md) > 0 {
		raw, err := json.Marshal(md)
		if err != nil {
			return fmt.Errorf("failed to marshal history metadata: %w", err)
		}
		metadata = raw
	}

	model := &models.TenantStatusHistoryModel{
		TenantID:    h.TenantID(),
		OldStatus:   h.OldStatus().String(),
		NewStatus:   h.NewStatus().String(),
		Reason:      h.Reason(),
		TriggeredBy: h.TriggeredBy(),
		ReferenceID: h.ReferenceID(),
		Metadata:    metadata,
		CreatedAt:   h.CreatedAt(),
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to append status history",
			"tenant_id", h.TenantID(),
			"old_status", h.OldStatus(),
			"new_status", h.NewStatus(),
			"error", err)
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}

// ListByTenant returns the audit trail for one tenant, newest first
func (r *TenantStatusHistoryRepositoryImpl) ListByTenant(ctx context.Context, tenantID uint, offset, limit int) ([]*tenant.StatusHistory, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := tx.Model(&models.TenantStatusHistoryModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count status history: %w", err)
	}

	var rows []models.TenantStatusHistoryModel
	if err := tx.
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list status history", "tenant_id", tenantID, "error", err)
		return nil, 0, fmt.Errorf("failed to list status history: %w", err)
	}

	entries := make([]*tenant.StatusHistory, 0, len(rows))
	for i := range rows {
		entry, err := historyToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

func historyToDomain(m *models.TenantStatusHistoryModel) (*tenant.StatusHistory, error) {
	var metadata map[string]interface{}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history metadata: %w", err)
		}
	}

	entry, err := tenant.ReconstructStatusHistory(
		m.ID,
		m.TenantID,
		vo.SubscriptionStatus(m.OldStatus),
		vo.SubscriptionStatus(m.NewStatus),
		m.Reason,
		m.TriggeredBy,
		m.ReferenceID,
		metadata,
		m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct status history: %w", err)
	}
	return entry, nil
}
