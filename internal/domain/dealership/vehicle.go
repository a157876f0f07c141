// Package dealership models the tenant-owned inventory: branches, vehicles,
// customers, and cross-tenant stock transfers. Every entity here carries its
// owning tenant ID; repositories take the tenant ID explicitly on every
// scoped operation.
package dealership

import (
	"fmt"
	"strings"
	"time"

	"motordesk/internal/shared/id"
)

// VehicleStatus tracks where a vehicle sits in the sales funnel.
type VehicleStatus string

const (
	VehicleInStock    VehicleStatus = "in_stock"
	VehicleReserved   VehicleStatus = "reserved"
	VehicleSold       VehicleStatus = "sold"
	VehicleInTransfer VehicleStatus = "in_transfer"
)

func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleInStock, VehicleReserved, VehicleSold, VehicleInTransfer:
		return true
	}
	return false
}

// Vehicle is a unit of dealership inventory.
type Vehicle struct {
	id        uint
	sid       string
	tenantID  uint
	branchID  *uint
	vin       string
	make_     string
	model     string
	year      int
	priceCents int64
	mileage   int
	status    VehicleStatus
	createdAt time.Time
	updatedAt time.Time
}

// NewVehicle creates an in-stock vehicle owned by the tenant.
func NewVehicle(tenantID uint, vin, make_, model string, year int, priceCents int64, mileage int) (*Vehicle, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return nil, fmt.Errorf("VIN is required")
	}
	if make_ == "" || model == "" {
		return nil, fmt.Errorf("make and model are required")
	}
	if year < 1900 {
		return nil, fmt.Errorf("invalid model year: %d", year)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	sid, err := id.NewVehicleSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate vehicle SID: %w", err)
	}

	now := time.Now().UTC()
	return &Vehicle{
		sid:        sid,
		tenantID:   tenantID,
		vin:        vin,
		make_:      make_,
		model:      model,
		year:       year,
		priceCents: priceCents,
		mileage:    mileage,
		status:     VehicleInStock,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// VehicleReconstructParams carries persistence state back into the entity.
type VehicleReconstructParams struct {
	ID         uint
	SID        string
	TenantID   uint
	BranchID   *uint
	VIN        string
	Make       string
	Model      string
	Year       int
	PriceCents int64
	Mileage    int
	Status     VehicleStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReconstructVehicle rebuilds a vehicle from persistence.
func ReconstructVehicle(p VehicleReconstructParams) (*Vehicle, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("vehicle ID cannot be zero")
	}
	if p.TenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid vehicle status: %s", p.Status)
	}

	return &Vehicle{
		id:         p.ID,
		sid:        p.SID,
		tenantID:   p.TenantID,
		branchID:   p.BranchID,
		vin:        p.VIN,
		make_:      p.Make,
		model:      p.Model,
		year:       p.Year,
		priceCents: p.PriceCents,
		mileage:    p.Mileage,
		status:     p.Status,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
	}, nil
}

func (v *Vehicle) ID() uint              { return v.id }
func (v *Vehicle) SID() string           { return v.sid }
func (v *Vehicle) TenantID() uint        { return v.tenantID }
func (v *Vehicle) BranchID() *uint       { return v.branchID }
func (v *Vehicle) VIN() string           { return v.vin }
func (v *Vehicle) Make() string          { return v.make_ }
func (v *Vehicle) Model() string         { return v.model }
func (v *Vehicle) Year() int             { return v.year }
func (v *Vehicle) PriceCents() int64     { return v.priceCents }
func (v *Vehicle) Mileage() int          { return v.mileage }
func (v *Vehicle) Status() VehicleStatus { return v.status }
func (v *Vehicle) CreatedAt() time.Time  { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time  { return v.updatedAt }

// SetID sets the vehicle ID (only for persistence layer use)
func (v *Vehicle) SetID(vehicleID uint) error {
	if v.id != 0 {
		return fmt.Errorf("vehicle ID is already set")
	}
	if vehicleID == 0 {
		return fmt.Errorf("vehicle ID cannot be zero")
	}
	v.id = vehicleID
	return nil
}

// AssignBranch places the vehicle at a branch within the same tenant.
func (v *Vehicle) AssignBranch(branchID uint) error {
	if branchID == 0 {
		return fmt.Errorf("branch ID cannot be zero")
	}
	v.branchID = &branchID
	v.touch()
	return nil
}

// UpdatePrice changes the listed price.
func (v *Vehicle) UpdatePrice(priceCents int64) error {
	if priceCents < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	v.priceCents = priceCents
	v.touch()
	return nil
}

// Reserve marks the vehicle held for a buyer. Only in-stock vehicles can be
// reserved.
func (v *Vehicle) Reserve() error {
	if v.status != VehicleInStock {
		return fmt.Errorf("vehicle is not in stock (status: %s)", v.status)
	}
	v.status = VehicleReserved
	v.touch()
	return nil
}

// Release returns a reserved vehicle to stock.
func (v *Vehicle) Release() error {
	if v.status != VehicleReserved {
		return fmt.Errorf("vehicle is not reserved (status: %s)", v.status)
	}
	v.status = VehicleInStock
	v.touch()
	return nil
}

// MarkSold finalizes the sale of an in-stock or reserved vehicle.
func (v *Vehicle) MarkSold() error {
	if v.status != VehicleInStock && v.status != VehicleReserved {
		return fmt.Errorf("vehicle cannot be sold (status: %s)", v.status)
	}
	v.status = VehicleSold
	v.touch()
	return nil
}

// BeginTransfer locks the vehicle while an outbound stock transfer is open.
func (v *Vehicle) BeginTransfer() error {
	if v.status != VehicleInStock {
		return fmt.Errorf("vehicle is not in stock (status: %s)", v.status)
	}
	v.status = VehicleInTransfer
	v.touch()
	return nil
}

// CompleteTransfer hands ownership to the destination tenant and returns the
// vehicle to stock there. The branch assignment does not survive the move.
func (v *Vehicle) CompleteTransfer(destTenantID uint) error {
	if v.status != VehicleInTransfer {
		return fmt.Errorf("vehicle is not in transfer (status: %s)", v.status)
	}
	if destTenantID == 0 {
		return fmt.Errorf("destination tenant ID cannot be zero")
	}
	v.tenantID = destTenantID
	v.branchID = nil
	v.status = VehicleInStock
	v.touch()
	return nil
}

// CancelTransfer returns the vehicle to stock at the source tenant.
func (v *Vehicle) CancelTransfer() error {
	if v.status != VehicleInTransfer {
		return fmt.Errorf("vehicle is not in transfer (status: %s)", v.status)
	}
	v.status = VehicleInStock
	v.touch()
	return nil
}

func (v *Vehicle) touch() {
	v.updatedAt = time.Now().UTC()
}
