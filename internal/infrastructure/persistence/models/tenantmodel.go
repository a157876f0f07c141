package models

import (
	"time"

	"gorm.io/gorm"

	"motordesk/internal/shared/constants"
)

// TenantModel represents the database persistence model for tenants
// This is the anti-corruption layer between domain and database
type TenantModel struct {
	ID                  uint   `gorm:"primarykey"`
	SID                 string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: tn_xxx"`
	Name                string `gorm:"not null;size:255"`
	PlanID              *uint  `gorm:"index:idx_tenant_plan"`
	PlanTier            string `gorm:"size:50;comment:legacy tier slug, bridged until plan_id is set"`
	Status              string `gorm:"not null;size:20;index:idx_tenant_status"`
	SuspensionType      string `gorm:"size:10;default:''"`
	TrialEndsAt         *time.Time
	SubscriptionEndsAt  *time.Time
	ScheduledDeletionAt *time.Time `gorm:"index:idx_tenant_sched_deletion"`
	Version             int        `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (TenantModel) TableName() string {
	return constants.TableTenants
}

// BeforeCreate hook for GORM
func (t *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}
