package dealership

import (
	"fmt"
	"strings"
	"time"

	"motordesk/internal/shared/id"
)

// Branch is a physical dealership location owned by a tenant.
type Branch struct {
	id        uint
	sid       string
	tenantID  uint
	name      string
	address   string
	phone     string
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

// NewBranch creates an active branch owned by the tenant.
func NewBranch(tenantID uint, name, address, phone string) (*Branch, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("branch name is required")
	}

	sid, err := id.NewBranchSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate branch SID: %w", err)
	}

	now := time.Now().UTC()
	return &Branch{
		sid:       sid,
		tenantID:  tenantID,
		name:      strings.TrimSpace(name),
		address:   strings.TrimSpace(address),
		phone:     strings.TrimSpace(phone),
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// BranchReconstructParams carries persistence state back into the entity.
type BranchReconstructParams struct {
	ID        uint
	SID       string
	TenantID  uint
	Name      string
	Address   string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReconstructBranch rebuilds a branch from persistence.
func ReconstructBranch(p BranchReconstructParams) (*Branch, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("branch ID cannot be zero")
	}
	if p.TenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}

	return &Branch{
		id:        p.ID,
		sid:       p.SID,
		tenantID:  p.TenantID,
		name:      p.Name,
		address:   p.Address,
		phone:     p.Phone,
		active:    p.Active,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

func (b *Branch) ID() uint             { return b.id }
func (b *Branch) SID() string          { return b.sid }
func (b *Branch) TenantID() uint       { return b.tenantID }
func (b *Branch) Name() string         { return b.name }
func (b *Branch) Address() string      { return b.address }
func (b *Branch) Phone() string        { return b.phone }
func (b *Branch) Active() bool         { return b.active }
func (b *Branch) CreatedAt() time.Time { return b.createdAt }
func (b *Branch) UpdatedAt() time.Time { return b.updatedAt }

// SetID sets the branch ID (only for persistence layer use)
func (b *Branch) SetID(branchID uint) error {
	if b.id != 0 {
		return fmt.Errorf("branch ID is already set")
	}
	if branchID == 0 {
		return fmt.Errorf("branch ID cannot be zero")
	}
	b.id = branchID
	return nil
}

// Rename updates the branch name.
func (b *Branch) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("branch name is required")
	}
	b.name = strings.TrimSpace(name)
	b.touch()
	return nil
}

// UpdateContact replaces address and phone.
func (b *Branch) UpdateContact(address, phone string) {
	b.address = strings.TrimSpace(address)
	b.phone = strings.TrimSpace(phone)
	b.touch()
}

// Deactivate closes the branch. Idempotent.
func (b *Branch) Deactivate() {
	if !b.active {
		return
	}
	b.active = false
	b.touch()
}

func (b *Branch) touch() {
	b.updatedAt = time.Now().UTC()
}
