package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/domain/tenant"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/constants"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

const contextKeyTenant = "effective_tenant"

// TenantContextMiddleware resolves the single effective tenant for a request
// and caches the loaded aggregate in the request context. It runs once per
// request; everything downstream consumes the cached value.
type TenantContextMiddleware struct {
	tenantRepo tenant.Repository
	logger     logger.Interface
}

func NewTenantContextMiddleware(tenantRepo tenant.Repository, logger logger.Interface) *TenantContextMiddleware {
	return &TenantContextMiddleware{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// Resolve computes and caches the effective tenant. Superadmins without an
// override header proceed tenant-less for platform-wide views; tenant routes
// behind RequireTenant then refuse them.
func (m *TenantContextMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		effectiveSID, err := authorization.ResolveTenantContext(p, c.GetHeader(constants.HeaderXTenantID))
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if effectiveSID == "" {
			c.Next()
			return
		}

		t, err := m.tenantRepo.GetBySID(c.Request.Context(), effectiveSID)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}
		if t.IsDeleted() {
			utils.ErrorResponseWithError(c, errors.NewNotFoundError("tenant not found"))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTenantID, t.ID())
		c.Set(contextKeyTenant, t)
		c.Next()
	}
}

// RequireTenant refuses requests that resolved no tenant context.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetTenant(c); !ok {
			utils.ErrorResponseWithError(c, errors.NewNoTenantAssociatedError())
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetTenant reads the cached effective tenant aggregate.
func GetTenant(c *gin.Context) (*tenant.Tenant, bool) {
	v, exists := c.Get(contextKeyTenant)
	if !exists {
		return nil, false
	}
	t, ok := v.(*tenant.Tenant)
	return t, ok
}

// GetTenantID reads the cached effective tenant ID.
func GetTenantID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyTenantID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
