package middleware

import (
	"github.com/gin-gonic/gin"

	"motordesk/internal/shared/constants"
	"motordesk/internal/shared/id"
)

// RequestID ensures every request carries an ID, generating one when the
// client did not supply it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			generated, err := id.GenerateWithPrefix("req_", id.DefaultLength)
			if err == nil {
				requestID = generated
			}
		}

		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}
