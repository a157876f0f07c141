package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/shared/authorization"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(1, "  Owner@Example.COM ", "hash", "Owner", authorization.RoleOwner)
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", u.Email(), "email is normalized")
	assert.NotEmpty(t, u.SID())
	require.NotNil(t, u.TenantID())
	assert.Equal(t, uint(1), *u.TenantID())
	assert.False(t, u.EmailVerified())
	assert.False(t, u.OnboardingCompleted())
	assert.True(t, u.Active())
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser(0, "a@b.com", "hash", "A", authorization.RoleStaff)
	assert.Error(t, err)

	_, err = NewUser(1, "", "hash", "A", authorization.RoleStaff)
	assert.Error(t, err)

	_, err = NewUser(1, "a@b.com", "", "A", authorization.RoleStaff)
	assert.Error(t, err)

	_, err = NewUser(1, "a@b.com", "hash", "A", authorization.RoleSuperAdmin)
	assert.Error(t, err, "platform roles cannot be tenant-scoped")
}

func TestNewPlatformUser(t *testing.T) {
	u, err := NewPlatformUser("ops@example.com", "hash", "Ops", authorization.RoleSuperAdmin)
	require.NoError(t, err)

	assert.Nil(t, u.TenantID())
	assert.True(t, u.EmailVerified(), "platform accounts are provisioned verified")
	assert.True(t, u.OnboardingCompleted())

	_, err = NewPlatformUser("ops@example.com", "hash", "Ops", authorization.RoleOwner)
	assert.Error(t, err)
}

func TestUser_VerifyEmail_Idempotent(t *testing.T) {
	u, err := NewUser(1, "a@b.com", "hash", "A", authorization.RoleStaff)
	require.NoError(t, err)

	u.VerifyEmail()
	assert.True(t, u.EmailVerified())

	u.VerifyEmail()
	assert.True(t, u.EmailVerified())
}

func TestUser_CompleteOnboarding(t *testing.T) {
	u, err := NewUser(1, "a@b.com", "hash", "A", authorization.RoleStaff)
	require.NoError(t, err)

	// Onboarding cannot precede verification.
	assert.Error(t, u.CompleteOnboarding())

	u.VerifyEmail()
	require.NoError(t, u.CompleteOnboarding())
	assert.True(t, u.OnboardingCompleted())

	require.NoError(t, u.CompleteOnboarding())
}

func TestUser_ChangeRole(t *testing.T) {
	u, err := NewUser(1, "a@b.com", "hash", "A", authorization.RoleStaff)
	require.NoError(t, err)

	require.NoError(t, u.ChangeRole(authorization.RoleManager))
	assert.Equal(t, authorization.RoleManager, u.Role())

	// Scope changes are rejected.
	assert.Error(t, u.ChangeRole(authorization.RoleSuperAdmin))
	assert.Error(t, u.ChangeRole(authorization.UserRole("ghost")))

	require.NoError(t, u.ChangeRole(authorization.RoleManager))
}

func TestUser_ActivateDeactivate(t *testing.T) {
	u, err := NewUser(1, "a@b.com", "hash", "A", authorization.RoleStaff)
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.Active())
	u.Deactivate()
	assert.False(t, u.Active())

	u.Activate()
	assert.True(t, u.Active())
}

func TestUser_RecordLogin(t *testing.T) {
	u, err := NewUser(1, "a@b.com", "hash", "A", authorization.RoleStaff)
	require.NoError(t, err)
	require.Nil(t, u.LastLoginAt())

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	u.RecordLogin(at)
	require.NotNil(t, u.LastLoginAt())
	assert.True(t, at.Equal(*u.LastLoginAt()))
}

func TestUser_Principal(t *testing.T) {
	u, err := NewUser(1, "a@b.com", "hash", "A", authorization.RoleManager)
	require.NoError(t, err)
	u.VerifyEmail()

	p := u.Principal("tnt_abc")
	assert.Equal(t, u.SID(), p.SubjectSID)
	assert.Equal(t, "a@b.com", p.Email)
	assert.Equal(t, authorization.RoleManager, p.Role)
	assert.Equal(t, "tnt_abc", p.TenantSID)
	assert.True(t, p.EmailVerified)
	assert.False(t, p.OnboardingCompleted)
	assert.NoError(t, p.Validate())
}
