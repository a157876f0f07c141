package dealership

import (
	"fmt"
	"time"

	"motordesk/internal/shared/id"
)

// TransferStatus tracks a cross-tenant stock transfer.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferAccepted  TransferStatus = "accepted"
	TransferRejected  TransferStatus = "rejected"
	TransferCancelled TransferStatus = "cancelled"
)

func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferPending, TransferAccepted, TransferRejected, TransferCancelled:
		return true
	}
	return false
}

func (s TransferStatus) IsTerminal() bool {
	return s != TransferPending
}

// StockTransfer moves a vehicle between two tenants. It is the one sanctioned
// cross-tenant operation: both tenant IDs are recorded explicitly, and the
// repository methods that touch it do not take a single scoping tenant ID.
type StockTransfer struct {
	id           uint
	sid          string
	vehicleID    uint
	fromTenantID uint
	toTenantID   uint
	initiatedBy  string
	resolvedBy   string
	status       TransferStatus
	reason       string
	resolvedAt   *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewStockTransfer opens a pending transfer of a vehicle from one tenant to
// another. initiatedBy is the acting user's SID.
func NewStockTransfer(vehicleID, fromTenantID, toTenantID uint, initiatedBy, reason string) (*StockTransfer, error) {
	if vehicleID == 0 {
		return nil, fmt.Errorf("vehicle ID cannot be zero")
	}
	if fromTenantID == 0 || toTenantID == 0 {
		return nil, fmt.Errorf("both tenant IDs are required")
	}
	if fromTenantID == toTenantID {
		return nil, fmt.Errorf("source and destination tenants must differ")
	}
	if initiatedBy == "" {
		return nil, fmt.Errorf("initiator is required")
	}

	sid, err := id.NewStockTransferSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transfer SID: %w", err)
	}

	now := time.Now().UTC()
	return &StockTransfer{
		sid:          sid,
		vehicleID:    vehicleID,
		fromTenantID: fromTenantID,
		toTenantID:   toTenantID,
		initiatedBy:  initiatedBy,
		status:       TransferPending,
		reason:       reason,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// StockTransferReconstructParams carries persistence state back into the entity.
type StockTransferReconstructParams struct {
	ID           uint
	SID          string
	VehicleID    uint
	FromTenantID uint
	ToTenantID   uint
	InitiatedBy  string
	ResolvedBy   string
	Status       TransferStatus
	Reason       string
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReconstructStockTransfer rebuilds a transfer from persistence.
func ReconstructStockTransfer(p StockTransferReconstructParams) (*StockTransfer, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("transfer ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid transfer status: %s", p.Status)
	}

	return &StockTransfer{
		id:           p.ID,
		sid:          p.SID,
		vehicleID:    p.VehicleID,
		fromTenantID: p.FromTenantID,
		toTenantID:   p.ToTenantID,
		initiatedBy:  p.InitiatedBy,
		resolvedBy:   p.ResolvedBy,
		status:       p.Status,
		reason:       p.Reason,
		resolvedAt:   p.ResolvedAt,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (t *StockTransfer) ID() uint               { return t.id }
func (t *StockTransfer) SID() string            { return t.sid }
func (t *StockTransfer) VehicleID() uint        { return t.vehicleID }
func (t *StockTransfer) FromTenantID() uint     { return t.fromTenantID }
func (t *StockTransfer) ToTenantID() uint       { return t.toTenantID }
func (t *StockTransfer) InitiatedBy() string    { return t.initiatedBy }
func (t *StockTransfer) ResolvedBy() string     { return t.resolvedBy }
func (t *StockTransfer) Status() TransferStatus { return t.status }
func (t *StockTransfer) Reason() string         { return t.reason }
func (t *StockTransfer) ResolvedAt() *time.Time { return t.resolvedAt }
func (t *StockTransfer) CreatedAt() time.Time   { return t.createdAt }
func (t *StockTransfer) UpdatedAt() time.Time   { return t.updatedAt }

// SetID sets the transfer ID (only for persistence layer use)
func (t *StockTransfer) SetID(transferID uint) error {
	if t.id != 0 {
		return fmt.Errorf("transfer ID is already set")
	}
	if transferID == 0 {
		return fmt.Errorf("transfer ID cannot be zero")
	}
	t.id = transferID
	return nil
}

// Accept resolves the transfer in favor of the destination tenant. Only a
// pending transfer can be accepted.
func (t *StockTransfer) Accept(resolvedBy string) error {
	return t.resolve(TransferAccepted, resolvedBy)
}

// Reject resolves the transfer without moving the vehicle.
func (t *StockTransfer) Reject(resolvedBy string) error {
	return t.resolve(TransferRejected, resolvedBy)
}

// Cancel withdraws a pending transfer from the source side.
func (t *StockTransfer) Cancel(resolvedBy string) error {
	return t.resolve(TransferCancelled, resolvedBy)
}

func (t *StockTransfer) resolve(status TransferStatus, resolvedBy string) error {
	if t.status != TransferPending {
		return fmt.Errorf("transfer already resolved (status: %s)", t.status)
	}
	if resolvedBy == "" {
		return fmt.Errorf("resolver is required")
	}
	now := time.Now().UTC()
	t.status = status
	t.resolvedBy = resolvedBy
	t.resolvedAt = &now
	t.updatedAt = now
	return nil
}
