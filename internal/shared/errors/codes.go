package errors

import "strconv"

// Stable machine-readable codes surfaced to clients. These are part of the
// external error contract and must never be renamed.
const (
	CodeEmailNotVerified       = "EMAIL_NOT_VERIFIED"
	CodeOnboardingNotCompleted = "ONBOARDING_NOT_COMPLETED"
	CodeTenantMismatch         = "TENANT_MISMATCH"
	CodeNoTenantAssociated     = "NO_TENANT_ASSOCIATED"
	CodeInsufficientRole       = "INSUFFICIENT_ROLE"
	CodeSubscriptionBlocked    = "SUBSCRIPTION_BLOCKED"
	CodeReadOnlyMode           = "READ_ONLY_MODE"
	CodeLimitReached           = "LIMIT_REACHED"
	CodeFeatureDisabled        = "FEATURE_DISABLED"
	CodeIllegalTransition      = "ILLEGAL_TRANSITION"
	CodeTenantNotFound         = "TENANT_NOT_FOUND"
	CodePlanNotResolved        = "PLAN_NOT_RESOLVED"
	CodeRateLimited            = "RATE_LIMITED"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
)

// NewEmailNotVerifiedError is returned by the user-state gate when a route
// requires a verified email address.
func NewEmailNotVerifiedError() *AppError {
	return NewForbiddenError("email address is not verified").WithCode(CodeEmailNotVerified)
}

// NewOnboardingRequiredError is returned by the user-state gate when a route
// requires completed onboarding.
func NewOnboardingRequiredError() *AppError {
	return NewForbiddenError("onboarding is not completed").WithCode(CodeOnboardingNotCompleted)
}

// NewTenantMismatchError is returned when a non-privileged principal supplies
// a tenant override header that differs from its own tenant.
func NewTenantMismatchError(headerTenantID string) *AppError {
	return NewForbiddenError("tenant mismatch", "header tenant "+headerTenantID+" does not match principal tenant").
		WithCode(CodeTenantMismatch)
}

// NewNoTenantAssociatedError is returned when a non-superadmin principal has
// no tenant association.
func NewNoTenantAssociatedError() *AppError {
	return NewForbiddenError("principal has no tenant association").WithCode(CodeNoTenantAssociated)
}

// NewInsufficientRoleError is returned when the principal's role does not
// cover the attempted operation.
func NewInsufficientRoleError(required string) *AppError {
	return NewForbiddenError("insufficient role", "requires "+required).WithCode(CodeInsufficientRole)
}

// NewSubscriptionBlockedError is returned when the tenant's access level is
// BLOCK and the path is not on the billing whitelist.
func NewSubscriptionBlockedError() *AppError {
	return NewForbiddenError("tenant subscription is blocked; settle outstanding billing to restore access").
		WithCode(CodeSubscriptionBlocked)
}

// NewReadOnlyModeError is returned when a mutating request hits a tenant in
// READ_ONLY or BILLING_ONLY access mode.
func NewReadOnlyModeError() *AppError {
	return NewForbiddenError("tenant is in read-only mode; mutations are disabled").
		WithCode(CodeReadOnlyMode)
}

// NewLimitReachedError is returned by the feature limit evaluator when the
// plan's quantitative limit is exhausted.
func NewLimitReachedError(kind string, limit int64) *AppError {
	return NewForbiddenError("plan limit reached",
		limitDetail(kind, limit)).WithCode(CodeLimitReached)
}

// NewFeatureDisabledError is returned when a plan feature flag is off or absent.
func NewFeatureDisabledError(feature string) *AppError {
	return NewForbiddenError("feature not available on current plan", feature).
		WithCode(CodeFeatureDisabled)
}

// NewIllegalTransitionError is returned for a subscription status transition
// outside the allowed table. This is a programming or data error and is never
// coerced to a nearby valid state.
func NewIllegalTransitionError(from, to string) *AppError {
	return NewConflictError("illegal subscription status transition", from+" -> "+to).
		WithCode(CodeIllegalTransition)
}

func limitDetail(kind string, limit int64) string {
	if limit < 0 {
		return kind
	}
	return kind + " limit " + strconv.FormatInt(limit, 10)
}
