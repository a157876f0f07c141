package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/shared/config"
)

const (
	AccessTokenCookie  = "md_access_token"
	RefreshTokenCookie = "md_refresh_token"
)

// GetTokenFromCookie reads a token cookie, returning "" when absent.
func GetTokenFromCookie(c *gin.Context, name string) string {
	token, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return token
}

// SetAuthCookies writes HTTP-only auth cookies using the configured cookie
// policy. maxAge values are in seconds.
func SetAuthCookies(c *gin.Context, cfg *config.CookieConfig, accessToken string, accessMaxAge int, refreshToken string, refreshMaxAge int) {
	sameSite := parseSameSite(cfg.SameSite)
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenCookie, accessToken, accessMaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, refreshMaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(c *gin.Context, cfg *config.CookieConfig) {
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(AccessTokenCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Strict", "strict":
		return http.SameSiteStrictMode
	case "None", "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
