package models

import (
	"time"

	"gorm.io/datatypes"

	"motordesk/internal/shared/constants"
)

// TenantStatusHistoryModel is the append-only audit row for tenant status
// transitions. No UpdatedAt, no DeletedAt: rows are written once inside the
// transition transaction and never touched again.
type TenantStatusHistoryModel struct {
	ID          uint   `gorm:"primarykey"`
	TenantID    uint   `gorm:"not null;index:idx_history_tenant,priority:1"`
	OldStatus   string `gorm:"not null;size:20"`
	NewStatus   string `gorm:"not null;size:20"`
	Reason      string `gorm:"not null;size:500"`
	TriggeredBy string `gorm:"not null;size:50"`
	ReferenceID string `gorm:"size:100;comment:external document, e.g. invoice SID"`
	Metadata    datatypes.JSON
	CreatedAt   time.Time `gorm:"index:idx_history_tenant,priority:2"`
}

// TableName specifies the table name for GORM
func (TenantStatusHistoryModel) TableName() string {
	return constants.TableTenantStatusHistory
}
