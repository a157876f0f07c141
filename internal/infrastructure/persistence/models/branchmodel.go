package models

import (
	"time"

	"gorm.io/gorm"

	"motordesk/internal/shared/constants"
)

// BranchModel represents the database persistence model for branches
type BranchModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: br_xxx"`
	TenantID  uint   `gorm:"not null;index:idx_branch_tenant"`
	Name      string `gorm:"not null;size:255"`
	Address   string `gorm:"size:500"`
	Phone     string `gorm:"size:50"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (BranchModel) TableName() string {
	return constants.TableBranches
}
