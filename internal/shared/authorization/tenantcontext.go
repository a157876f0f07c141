package authorization

import (
	"motordesk/internal/shared/errors"
)

// TenantOverrideHeader is the optional request header honored only for
// superadmin principals.
const TenantOverrideHeader = "X-Tenant-ID"

// ResolveTenantContext computes the single effective tenant SID for a request.
//
// Superadmins may select any tenant via the override header, or operate
// tenant-less (empty result) for global views. For everyone else the header
// is never trusted: a present header must equal the principal's own tenant,
// otherwise the request fails with TENANT_MISMATCH.
//
// Callers must invoke this exactly once per request and attach the result to
// the request context; downstream layers consume the cached value and never
// recompute it.
func ResolveTenantContext(p Principal, headerTenantSID string) (string, error) {
	if p.Role.IsSuperAdmin() {
		return headerTenantSID, nil
	}

	if p.TenantSID == "" {
		return "", errors.NewNoTenantAssociatedError()
	}

	if headerTenantSID != "" && headerTenantSID != p.TenantSID {
		return "", errors.NewTenantMismatchError(headerTenantSID)
	}

	return p.TenantSID, nil
}
