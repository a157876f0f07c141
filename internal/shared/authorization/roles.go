package authorization

// UserRole is the role carried by a principal. Tenant-scoped roles (staff,
// manager, owner) always belong to exactly one tenant; platform roles
// (admin_staff, superadmin) may operate tenant-less.
type UserRole string

const (
	RoleStaff      UserRole = "staff"
	RoleManager    UserRole = "manager"
	RoleOwner      UserRole = "owner"
	RoleAdminStaff UserRole = "admin_staff"
	RoleSuperAdmin UserRole = "superadmin"
)

// tenantRoleRank orders the tenant-scoped roles for AtLeast comparisons.
var tenantRoleRank = map[UserRole]int{
	RoleStaff:   1,
	RoleManager: 2,
	RoleOwner:   3,
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleOwner, RoleAdminStaff, RoleSuperAdmin:
		return true
	}
	return false
}

// IsPlatform reports whether the role operates above tenant scope.
func (r UserRole) IsPlatform() bool {
	return r == RoleAdminStaff || r == RoleSuperAdmin
}

func (r UserRole) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// AtLeast reports whether the role covers the required tenant-scoped role.
// Platform roles cover every tenant-scoped requirement.
func (r UserRole) AtLeast(required UserRole) bool {
	if r.IsPlatform() {
		return true
	}
	return tenantRoleRank[r] >= tenantRoleRank[required]
}

// ParseUserRole parses a role string, defaulting to staff for unknown input.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleStaff
}
