package models

import (
	"time"

	"gorm.io/gorm"

	"motordesk/internal/shared/constants"
)

// CustomerModel represents the database persistence model for customers
type CustomerModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: cus_xxx"`
	TenantID  uint   `gorm:"not null;index:idx_customer_tenant"`
	Name      string `gorm:"not null;size:255"`
	Email     string `gorm:"size:255;index:idx_customer_email"`
	Phone     string `gorm:"size:50"`
	Notes     string `gorm:"size:2000"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (CustomerModel) TableName() string {
	return constants.TableCustomers
}
