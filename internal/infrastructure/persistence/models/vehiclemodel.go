package models

import (
	"time"

	"gorm.io/gorm"

	"motordesk/internal/shared/constants"
)

// VehicleModel represents the database persistence model for vehicles
type VehicleModel struct {
	ID         uint   `gorm:"primarykey"`
	SID        string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: veh_xxx"`
	TenantID   uint   `gorm:"not null;index:idx_vehicle_tenant,priority:1"`
	BranchID   *uint  `gorm:"index:idx_vehicle_branch"`
	VIN        string `gorm:"not null;size:17;index:idx_vehicle_vin"`
	Make       string `gorm:"not null;size:100"`
	Model      string `gorm:"not null;size:100"`
	Year       int    `gorm:"not null"`
	PriceCents int64  `gorm:"not null;default:0"`
	Mileage    int    `gorm:"not null;default:0"`
	Status     string `gorm:"not null;size:20;index:idx_vehicle_tenant,priority:2"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (VehicleModel) TableName() string {
	return constants.TableVehicles
}
