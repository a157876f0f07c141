package authorization

// Principal is the authenticated identity attached to a request. It is
// derived from a verified credential at authentication time and is immutable
// for the life of the request. The source of truth is the user record,
// re-signed into a token on change; the principal itself is never persisted.
type Principal struct {
	SubjectSID          string
	Email               string
	Role                UserRole
	TenantSID           string // empty only for platform roles
	EmailVerified       bool
	OnboardingCompleted bool
}

// Validate checks the structural invariants of a principal.
func (p Principal) Validate() error {
	if p.SubjectSID == "" {
		return errInvalidPrincipal("subject SID is required")
	}
	if !p.Role.IsValid() {
		return errInvalidPrincipal("unknown role " + string(p.Role))
	}
	if p.TenantSID == "" && !p.Role.IsPlatform() {
		return errInvalidPrincipal("tenant-scoped role without tenant association")
	}
	return nil
}

type principalError string

func (e principalError) Error() string { return string(e) }

func errInvalidPrincipal(msg string) error {
	return principalError("invalid principal: " + msg)
}
