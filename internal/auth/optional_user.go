package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalUser sets a firebase uid in context without verifying tokens.
// - If X-User-Id is missing the request stays unauthenticated.
// - Use this ONLY for development/testing.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid != "" {
			c.Set(CtxFirebaseUID, uid)
		}
		c.Next()
	}
}
