package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerTokenContextKey = "bearerToken"

// BearerToken extracts the bearer credential from the Authorization header
// into the request context. Whether a credential is required, and what it
// must prove, is decided per operation by the message service, so requests
// without one pass through untouched.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := header
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			token = parts[1]
		}

		c.Set(bearerTokenContextKey, token)
		c.Next()
	}
}

// TokenFromContext returns the extracted bearer credential, or "" when the
// request carried none.
func TokenFromContext(c *gin.Context) string {
	return c.GetString(bearerTokenContextKey)
}
