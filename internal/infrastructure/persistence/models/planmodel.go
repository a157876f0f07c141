package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"motordesk/internal/shared/constants"
)

// PlanModel represents the database persistence model for plans
type PlanModel struct {
	ID              uint   `gorm:"primarykey"`
	SID             string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: plan_xxx"`
	Slug            string `gorm:"uniqueIndex;not null;size:50"`
	Name            string `gorm:"not null;size:100"`
	MaxVehicles     int64  `gorm:"not null;default:0;comment:-1 means unlimited"`
	MaxUsers        int64  `gorm:"not null;default:0"`
	MaxBranches     int64  `gorm:"not null;default:0"`
	MaxCustomers    int64  `gorm:"not null;default:0"`
	MaxGroupMembers int64  `gorm:"not null;default:0"`
	CanCreateGroup  bool   `gorm:"not null;default:false"`
	Features        datatypes.JSON
	Active          bool `gorm:"not null;default:true;index:idx_plan_active"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
