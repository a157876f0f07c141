package dealership

import (
	"context"
	"time"
)

// Tenant-scoped repositories take the resolved tenant ID as an explicit first
// argument on every read and write. There is no ambient scoping: a method
// without a tenantID parameter is, by construction, one of the sanctioned
// unscoped operations (cross-tenant transfer resolution, platform lookups).

// VehicleRepository is the persistence port for vehicles.
type VehicleRepository interface {
	Create(ctx context.Context, tenantID uint, v *Vehicle) error
	GetBySID(ctx context.Context, tenantID uint, sid string) (*Vehicle, error)
	List(ctx context.Context, tenantID uint, f VehicleFilter) ([]*Vehicle, int64, error)
	Update(ctx context.Context, tenantID uint, v *Vehicle) error
	Delete(ctx context.Context, tenantID uint, sid string) error
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	DeleteByTenant(ctx context.Context, tenantID uint) (int64, error)

	// GetByIDUnscoped is used only by transfer resolution, which must read a
	// vehicle across the tenant boundary to reassign ownership.
	GetByIDUnscoped(ctx context.Context, vehicleID uint) (*Vehicle, error)
	UpdateUnscoped(ctx context.Context, v *Vehicle) error
}

// VehicleFilter narrows vehicle listings.
type VehicleFilter struct {
	Status   VehicleStatus
	BranchID *uint
	Make     string
	Page     int
	PageSize int
}

// CustomerRepository is the persistence port for customers.
type CustomerRepository interface {
	Create(ctx context.Context, tenantID uint, c *Customer) error
	GetBySID(ctx context.Context, tenantID uint, sid string) (*Customer, error)
	List(ctx context.Context, tenantID uint, page, pageSize int) ([]*Customer, int64, error)
	Update(ctx context.Context, tenantID uint, c *Customer) error
	Delete(ctx context.Context, tenantID uint, sid string) error
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	DeleteByTenant(ctx context.Context, tenantID uint) (int64, error)
}

// BranchRepository is the persistence port for branches.
type BranchRepository interface {
	Create(ctx context.Context, tenantID uint, b *Branch) error
	GetBySID(ctx context.Context, tenantID uint, sid string) (*Branch, error)
	List(ctx context.Context, tenantID uint) ([]*Branch, error)
	Update(ctx context.Context, tenantID uint, b *Branch) error
	Delete(ctx context.Context, tenantID uint, sid string) error
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	DeleteByTenant(ctx context.Context, tenantID uint) (int64, error)
}

// StockTransferRepository is the persistence port for transfers. Listing is
// scoped to either side of the transfer; resolution reads by SID unscoped
// because the resolving principal belongs to the destination tenant.
type StockTransferRepository interface {
	Create(ctx context.Context, t *StockTransfer) error
	GetBySID(ctx context.Context, sid string) (*StockTransfer, error)
	ListInvolving(ctx context.Context, tenantID uint, since time.Time) ([]*StockTransfer, error)
	Update(ctx context.Context, t *StockTransfer) error
	DeleteByTenant(ctx context.Context, tenantID uint) (int64, error)
}
