package models

import (
	"time"

	"motordesk/internal/shared/constants"
)

// StockTransferModel represents the database persistence model for
// cross-tenant stock transfers. Both tenant IDs are stored explicitly; this
// table is intentionally outside single-tenant scoping.
type StockTransferModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: xfer_xxx"`
	VehicleID    uint   `gorm:"not null;index:idx_transfer_vehicle"`
	FromTenantID uint   `gorm:"not null;index:idx_transfer_from"`
	ToTenantID   uint   `gorm:"not null;index:idx_transfer_to"`
	InitiatedBy  string `gorm:"not null;size:50"`
	ResolvedBy   string `gorm:"size:50"`
	Status       string `gorm:"not null;size:20;index:idx_transfer_status"`
	Reason       string `gorm:"size:500"`
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (StockTransferModel) TableName() string {
	return constants.TableStockTransfers
}
