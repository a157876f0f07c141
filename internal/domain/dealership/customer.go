package dealership

import (
	"fmt"
	"strings"
	"time"

	"motordesk/internal/shared/id"
)

// Customer is a tenant-owned sales contact.
type Customer struct {
	id        uint
	sid       string
	tenantID  uint
	name      string
	email     string
	phone     string
	notes     string
	createdAt time.Time
	updatedAt time.Time
}

// NewCustomer creates a customer record owned by the tenant.
func NewCustomer(tenantID uint, name, email, phone string) (*Customer, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	sid, err := id.NewCustomerSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate customer SID: %w", err)
	}

	now := time.Now().UTC()
	return &Customer{
		sid:       sid,
		tenantID:  tenantID,
		name:      strings.TrimSpace(name),
		email:     strings.ToLower(strings.TrimSpace(email)),
		phone:     strings.TrimSpace(phone),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// CustomerReconstructParams carries persistence state back into the entity.
type CustomerReconstructParams struct {
	ID        uint
	SID       string
	TenantID  uint
	Name      string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReconstructCustomer rebuilds a customer from persistence.
func ReconstructCustomer(p CustomerReconstructParams) (*Customer, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("customer ID cannot be zero")
	}
	if p.TenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}

	return &Customer{
		id:        p.ID,
		sid:       p.SID,
		tenantID:  p.TenantID,
		name:      p.Name,
		email:     p.Email,
		phone:     p.Phone,
		notes:     p.Notes,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

func (c *Customer) ID() uint             { return c.id }
func (c *Customer) SID() string          { return c.sid }
func (c *Customer) TenantID() uint       { return c.tenantID }
func (c *Customer) Name() string         { return c.name }
func (c *Customer) Email() string        { return c.email }
func (c *Customer) Phone() string        { return c.phone }
func (c *Customer) Notes() string        { return c.notes }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// SetID sets the customer ID (only for persistence layer use)
func (c *Customer) SetID(customerID uint) error {
	if c.id != 0 {
		return fmt.Errorf("customer ID is already set")
	}
	if customerID == 0 {
		return fmt.Errorf("customer ID cannot be zero")
	}
	c.id = customerID
	return nil
}

// UpdateContact replaces the contact details.
func (c *Customer) UpdateContact(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("customer name is required")
	}
	c.name = strings.TrimSpace(name)
	c.email = strings.ToLower(strings.TrimSpace(email))
	c.phone = strings.TrimSpace(phone)
	c.touch()
	return nil
}

// SetNotes replaces free-form notes.
func (c *Customer) SetNotes(notes string) {
	c.notes = notes
	c.touch()
}

func (c *Customer) touch() {
	c.updatedAt = time.Now().UTC()
}
