package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/infrastructure/ratelimit"
	"motordesk/internal/shared/logger"
	"motordesk/internal/shared/utils"
)

// RateLimit enforces per-client-IP request limits. Limiter failures fail
// open: blocking all traffic because the limiter store is down is worse than
// briefly not limiting.
func RateLimit(limiter ratelimit.RateLimiter, cfg ratelimit.RateLimitConfig, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()

		allowed, err := limiter.Allow(key, cfg)
		if err != nil {
			log.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
