package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/shared/errors"
)

func tenantPrincipal(role UserRole) Principal {
	return Principal{
		SubjectSID:          "usr_abc123",
		Email:               "staff@example.com",
		Role:                role,
		TenantSID:           "tnt_own123",
		EmailVerified:       true,
		OnboardingCompleted: true,
	}
}

func TestPrincipal_Validate(t *testing.T) {
	p := tenantPrincipal(RoleStaff)
	assert.NoError(t, p.Validate())

	p = tenantPrincipal(RoleStaff)
	p.SubjectSID = ""
	assert.Error(t, p.Validate())

	p = tenantPrincipal(UserRole("ghost"))
	assert.Error(t, p.Validate())

	// Tenant-scoped role must carry a tenant.
	p = tenantPrincipal(RoleOwner)
	p.TenantSID = ""
	assert.Error(t, p.Validate())

	// Platform roles may be tenant-less.
	p = tenantPrincipal(RoleSuperAdmin)
	p.TenantSID = ""
	assert.NoError(t, p.Validate())
}

func TestResolveTenantContext(t *testing.T) {
	t.Run("own tenant without header", func(t *testing.T) {
		sid, err := ResolveTenantContext(tenantPrincipal(RoleStaff), "")
		require.NoError(t, err)
		assert.Equal(t, "tnt_own123", sid)
	})

	t.Run("matching header is accepted", func(t *testing.T) {
		sid, err := ResolveTenantContext(tenantPrincipal(RoleStaff), "tnt_own123")
		require.NoError(t, err)
		assert.Equal(t, "tnt_own123", sid)
	})

	t.Run("mismatching header is rejected", func(t *testing.T) {
		_, err := ResolveTenantContext(tenantPrincipal(RoleOwner), "tnt_other99")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeTenantMismatch))
	})

	t.Run("admin staff cannot override either", func(t *testing.T) {
		p := tenantPrincipal(RoleAdminStaff)
		_, err := ResolveTenantContext(p, "tnt_other99")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeTenantMismatch))
	})

	t.Run("superadmin selects any tenant", func(t *testing.T) {
		p := tenantPrincipal(RoleSuperAdmin)
		p.TenantSID = ""
		sid, err := ResolveTenantContext(p, "tnt_other99")
		require.NoError(t, err)
		assert.Equal(t, "tnt_other99", sid)
	})

	t.Run("superadmin without header is global", func(t *testing.T) {
		p := tenantPrincipal(RoleSuperAdmin)
		p.TenantSID = ""
		sid, err := ResolveTenantContext(p, "")
		require.NoError(t, err)
		assert.Empty(t, sid)
	})

	t.Run("no tenant association", func(t *testing.T) {
		p := tenantPrincipal(RoleStaff)
		p.TenantSID = ""
		_, err := ResolveTenantContext(p, "")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeNoTenantAssociated))
	})
}

func TestCheckUserState(t *testing.T) {
	t.Run("verified and onboarded passes", func(t *testing.T) {
		assert.NoError(t, CheckUserState(tenantPrincipal(RoleStaff), false, false))
	})

	t.Run("unverified is rejected", func(t *testing.T) {
		p := tenantPrincipal(RoleStaff)
		p.EmailVerified = false
		err := CheckUserState(p, false, false)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeEmailNotVerified))
	})

	t.Run("unverified allowed when route opts out", func(t *testing.T) {
		p := tenantPrincipal(RoleStaff)
		p.EmailVerified = false
		p.OnboardingCompleted = false
		assert.NoError(t, CheckUserState(p, true, false))
	})

	t.Run("unonboarded is rejected", func(t *testing.T) {
		p := tenantPrincipal(RoleStaff)
		p.OnboardingCompleted = false
		err := CheckUserState(p, false, false)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeOnboardingNotCompleted))
	})

	t.Run("unonboarded allowed when route opts out", func(t *testing.T) {
		p := tenantPrincipal(RoleStaff)
		p.OnboardingCompleted = false
		assert.NoError(t, CheckUserState(p, false, true))
	})

	t.Run("superadmin bypasses both", func(t *testing.T) {
		p := tenantPrincipal(RoleSuperAdmin)
		p.EmailVerified = false
		p.OnboardingCompleted = false
		assert.NoError(t, CheckUserState(p, false, false))
	})
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, RoleOwner.AtLeast(RoleStaff))
	assert.True(t, RoleOwner.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleStaff))
	assert.False(t, RoleStaff.AtLeast(RoleManager))
	assert.False(t, RoleManager.AtLeast(RoleOwner))

	// Platform roles cover every tenant requirement.
	assert.True(t, RoleAdminStaff.AtLeast(RoleOwner))
	assert.True(t, RoleSuperAdmin.AtLeast(RoleOwner))
}

func TestParseUserRole(t *testing.T) {
	assert.Equal(t, RoleManager, ParseUserRole("manager"))
	assert.Equal(t, RoleSuperAdmin, ParseUserRole("superadmin"))
	assert.Equal(t, RoleStaff, ParseUserRole("nonsense"))
	assert.Equal(t, RoleStaff, ParseUserRole(""))
}
