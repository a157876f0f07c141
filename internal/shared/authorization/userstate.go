package authorization

import (
	"motordesk/internal/shared/errors"
)

// CheckUserState is the user-state gate: a precondition check on the
// principal itself, independent of tenant and subscription state. It runs
// before any tenant or billing logic — an unverified user has no business
// reaching either.
//
// Superadmins bypass both checks unconditionally. Routes may opt out of
// either check via the route policy table (registration, verification and
// onboarding endpoints do).
func CheckUserState(p Principal, allowUnverified, allowUnonboarded bool) error {
	if p.Role.IsSuperAdmin() {
		return nil
	}

	if !p.EmailVerified && !allowUnverified {
		return errors.NewEmailNotVerifiedError()
	}

	// The onboarding check only applies to verified users. Routes that allow
	// unverified access implicitly allow unonboarded access too: onboarding
	// cannot precede verification.
	if p.EmailVerified && !p.OnboardingCompleted && !allowUnonboarded && !allowUnverified {
		return errors.NewOnboardingRequiredError()
	}

	return nil
}
