package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"motordesk/internal/infrastructure/auth"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/constants"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

// AuthMiddleware resolves the request principal from a verified access token.
// The token carries the full principal, so no user lookup happens here.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try to get token from cookie first
		token := utils.GetTokenFromCookie(c, utils.AccessTokenCookie)

		// Fallback to Authorization header for backward compatibility
		if token == "" {
			authHeader := c.GetHeader(constants.HeaderAuthorization)
			if authHeader == "" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
				c.Abort()
				return
			}

			token = parts[1]
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		p := claims.Principal()
		if err := p.Validate(); err != nil {
			m.logger.Warnw("token carried invalid principal", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, p)
		c.Next()
	}
}

// GetPrincipal reads the resolved principal from the request context. The
// second return is false on routes that skipped RequireAuth.
func GetPrincipal(c *gin.Context) (authorization.Principal, bool) {
	v, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return authorization.Principal{}, false
	}
	p, ok := v.(authorization.Principal)
	return p, ok
}
