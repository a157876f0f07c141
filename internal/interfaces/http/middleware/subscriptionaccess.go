package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/utils"
)

// billingPathPrefixes are reachable under every access level so a suspended
// or blocked tenant can still pay its way back in.
var billingPathPrefixes = []string{
	"/api/v1/billing",
}

// SubscriptionAccess enforces the tenant's derived access level on every
// tenant-scoped request. The level is a pure function of subscription state,
// derived from the tenant cached by the tenant context middleware:
//
//	FULL          everything
//	READ_ONLY     reads pass, writes fail
//	BILLING_ONLY  reads pass, writes fail (same as READ_ONLY outside billing)
//	BLOCK         nothing outside the billing whitelist
//
// Superadmins already passed ResolveTenantContext with an override; they are
// still subject to the level here so a support session sees exactly what the
// tenant sees. Platform routes never carry a tenant context and never reach
// this middleware.
func SubscriptionAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := GetTenant(c)
		if !ok {
			utils.ErrorResponseWithError(c, errors.NewNoTenantAssociatedError())
			c.Abort()
			return
		}

		level := t.AccessLevel()
		if err := checkAccess(level, c.Request.Method, c.Request.URL.Path); err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

func checkAccess(level vo.AccessLevel, method, path string) error {
	if isBillingPath(path) {
		return nil
	}
	if isWriteMethod(method) {
		if level.AllowsWrites() {
			return nil
		}
		if level.AllowsReads() {
			return errors.NewReadOnlyModeError()
		}
		return errors.NewSubscriptionBlockedError()
	}
	if level.AllowsReads() {
		return nil
	}
	return errors.NewSubscriptionBlockedError()
}

func isWriteMethod(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

func isBillingPath(path string) bool {
	for _, prefix := range billingPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
