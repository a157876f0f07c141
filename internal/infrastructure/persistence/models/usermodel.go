package models

import (
	"time"

	"gorm.io/gorm"

	"motordesk/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID                  uint   `gorm:"primarykey"`
	SID                 string `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: usr_xxx"`
	TenantID            *uint  `gorm:"index:idx_user_tenant;comment:null for platform operators"`
	Email               string `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash        string `gorm:"not null;size:255"`
	Name                string `gorm:"size:100"`
	Role                string `gorm:"not null;size:20;default:staff"`
	EmailVerified       bool   `gorm:"not null;default:false"`
	OnboardingCompleted bool   `gorm:"not null;default:false"`
	Active              bool   `gorm:"not null;default:true"`
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
