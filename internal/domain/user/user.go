// Package user models dealership staff accounts. Every non-platform user
// belongs to exactly one tenant; platform operators carry no tenant binding.
package user

import (
	"fmt"
	"strings"
	"time"

	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/id"
)

// User is the user aggregate root.
type User struct {
	id                  uint
	sid                 string
	tenantID            *uint
	email               string
	passwordHash        string
	name                string
	role                authorization.UserRole
	emailVerified       bool
	onboardingCompleted bool
	active              bool
	lastLoginAt         *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// NewUser creates a tenant-scoped user in the unverified, un-onboarded state.
func NewUser(tenantID uint, email, passwordHash, name string, role authorization.UserRole) (*User, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if role.IsPlatform() {
		return nil, fmt.Errorf("platform role %s cannot be tenant-scoped", role)
	}
	u, err := newUser(email, passwordHash, name, role)
	if err != nil {
		return nil, err
	}
	u.tenantID = &tenantID
	return u, nil
}

// NewPlatformUser creates a platform operator with no tenant association.
func NewPlatformUser(email, passwordHash, name string, role authorization.UserRole) (*User, error) {
	if !role.IsPlatform() {
		return nil, fmt.Errorf("role %s is not a platform role", role)
	}
	u, err := newUser(email, passwordHash, name, role)
	if err != nil {
		return nil, err
	}
	// Platform accounts are provisioned, not self-registered.
	u.emailVerified = true
	u.onboardingCompleted = true
	return u, nil
}

func newUser(email, passwordHash, name string, role authorization.UserRole) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	sid, err := id.NewUserSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user SID: %w", err)
	}

	now := time.Now().UTC()
	return &User{
		sid:          sid,
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		role:         role,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// UserReconstructParams carries persistence state back into the aggregate.
type UserReconstructParams struct {
	ID                  uint
	SID                 string
	TenantID            *uint
	Email               string
	PasswordHash        string
	Name                string
	Role                authorization.UserRole
	EmailVerified       bool
	OnboardingCompleted bool
	Active              bool
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(p UserReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !p.Role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", p.Role)
	}

	return &User{
		id:                  p.ID,
		sid:                 p.SID,
		tenantID:            p.TenantID,
		email:               p.Email,
		passwordHash:        p.PasswordHash,
		name:                p.Name,
		role:                p.Role,
		emailVerified:       p.EmailVerified,
		onboardingCompleted: p.OnboardingCompleted,
		active:              p.Active,
		lastLoginAt:         p.LastLoginAt,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) SID() string                  { return u.sid }
func (u *User) TenantID() *uint              { return u.tenantID }
func (u *User) Email() string                { return u.email }
func (u *User) PasswordHash() string         { return u.passwordHash }
func (u *User) Name() string                 { return u.name }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) EmailVerified() bool          { return u.emailVerified }
func (u *User) OnboardingCompleted() bool    { return u.onboardingCompleted }
func (u *User) Active() bool                 { return u.active }
func (u *User) LastLoginAt() *time.Time      { return u.lastLoginAt }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

// SetID sets the user ID (only for persistence layer use)
func (u *User) SetID(userID uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if userID == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = userID
	return nil
}

// VerifyEmail marks the email as verified. Idempotent.
func (u *User) VerifyEmail() {
	if u.emailVerified {
		return
	}
	u.emailVerified = true
	u.touch()
}

// CompleteOnboarding marks onboarding as finished. Requires a verified email.
func (u *User) CompleteOnboarding() error {
	if !u.emailVerified {
		return fmt.Errorf("cannot complete onboarding before email verification")
	}
	if u.onboardingCompleted {
		return nil
	}
	u.onboardingCompleted = true
	u.touch()
	return nil
}

// ChangeRole updates the user's role within the same scope (tenant roles stay
// tenant roles, platform roles stay platform roles).
func (u *User) ChangeRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	if role.IsPlatform() != u.role.IsPlatform() {
		return fmt.Errorf("cannot change role scope from %s to %s", u.role, role)
	}
	if role == u.role {
		return nil
	}
	u.role = role
	u.touch()
	return nil
}

// ChangePassword replaces the stored password hash.
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = passwordHash
	u.touch()
	return nil
}

// UpdateName updates the display name.
func (u *User) UpdateName(name string) {
	u.name = name
	u.touch()
}

// RecordLogin stamps the last successful login time.
func (u *User) RecordLogin(at time.Time) {
	t := at.UTC()
	u.lastLoginAt = &t
	u.touch()
}

// Deactivate disables the account. Idempotent.
func (u *User) Deactivate() {
	if !u.active {
		return
	}
	u.active = false
	u.touch()
}

// Activate re-enables the account. Idempotent.
func (u *User) Activate() {
	if u.active {
		return
	}
	u.active = true
	u.touch()
}

// Principal projects the user into the request-scoped identity consumed by
// the authorization pipeline.
func (u *User) Principal(tenantSID string) authorization.Principal {
	return authorization.Principal{
		SubjectSID:          u.sid,
		Email:               u.email,
		Role:                u.role,
		TenantSID:           tenantSID,
		EmailVerified:       u.emailVerified,
		OnboardingCompleted: u.onboardingCompleted,
	}
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}
