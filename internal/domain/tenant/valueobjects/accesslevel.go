package valueobjects

// AccessLevel gates which operations a tenant's users may perform given the
// current billing state. It is derived, never persisted.
type AccessLevel string

const (
	AccessFull        AccessLevel = "FULL"
	AccessReadOnly    AccessLevel = "READ_ONLY"
	AccessBillingOnly AccessLevel = "BILLING_ONLY"
	AccessBlock       AccessLevel = "BLOCK"
)

func (l AccessLevel) String() string {
	return string(l)
}

// AllowsReads reports whether idempotent (read) operations are permitted
// outside the billing whitelist.
func (l AccessLevel) AllowsReads() bool {
	return l == AccessFull || l == AccessReadOnly || l == AccessBillingOnly
}

// AllowsWrites reports whether mutating operations are permitted outside the
// billing whitelist.
func (l AccessLevel) AllowsWrites() bool {
	return l == AccessFull
}

// DeriveAccessLevel maps (status, suspensionType) to exactly one access
// level. It is total: every unmodeled status fails closed to BLOCK.
//
//	active, trial          -> FULL
//	grace                  -> READ_ONLY
//	suspended + hard       -> BLOCK
//	suspended + soft/none  -> BILLING_ONLY
//	cancelled              -> BLOCK
//	anything else          -> BLOCK
func DeriveAccessLevel(status SubscriptionStatus, suspension SuspensionType) AccessLevel {
	switch status {
	case StatusActive, StatusTrial:
		return AccessFull
	case StatusGrace:
		return AccessReadOnly
	case StatusSuspended:
		if suspension == SuspensionHard {
			return AccessBlock
		}
		return AccessBillingOnly
	case StatusCancelled:
		return AccessBlock
	default:
		return AccessBlock
	}
}
