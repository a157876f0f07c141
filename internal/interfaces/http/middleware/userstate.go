package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/errors"
	"motordesk/internal/shared/utils"
)

func newInsufficientRole(required authorization.UserRole) error {
	return errors.NewInsufficientRoleError(string(required))
}

// UserState enforces the user-state gate after authentication. Route groups
// opt out per flag: auth endpoints allow unverified users, the onboarding
// endpoint allows unonboarded ones.
func UserState(allowUnverified, allowUnonboarded bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		if err := authorization.CheckUserState(p, allowUnverified, allowUnonboarded); err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole refuses principals below the given tenant role. Platform roles
// pass unconditionally: they outrank every tenant role.
func RequireRole(required authorization.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		if !p.Role.IsPlatform() && !p.Role.AtLeast(required) {
			utils.ErrorResponseWithError(c, newInsufficientRole(required))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePlatform limits a route to platform operators.
func RequirePlatform() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		if !p.Role.IsPlatform() {
			utils.ErrorResponseWithError(c, newInsufficientRole(authorization.RoleAdminStaff))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin limits a route to the superadmin role.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		if !p.Role.IsSuperAdmin() {
			utils.ErrorResponseWithError(c, newInsufficientRole(authorization.RoleSuperAdmin))
			c.Abort()
			return
		}

		c.Next()
	}
}
