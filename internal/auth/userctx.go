package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lifetribe/goals-backend/internal/users"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxUserDBID    = "user_db_id"
	CtxUserTier    = "user_tier"
)

// WithUser resolves the authenticated firebase identity to an account
// row and stores its database id and plan tier in the context.
// Unauthenticated requests pass through untouched; handlers decide
// whether to serve demo data or reject.
func WithUser(userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := strings.TrimSpace(c.GetString(CtxFirebaseUID))
		if fuid == "" {
			c.Next()
			return
		}

		u, err := userRepo.EnsureUser(c.Request.Context(), users.UpsertUser{
			FirebaseUID: fuid,
			Email:       c.GetString(CtxEmail),
			DisplayName: c.GetHeader("X-User-Name"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure user: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxUserDBID, u.ID)
		c.Set(CtxUserTier, u.Tier)
		c.Next()
	}
}

// UserDBID returns the caller's account id, or "" when unauthenticated.
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}

// UserTier returns the caller's plan tier, defaulting to free.
func UserTier(c *gin.Context) string {
	tier := strings.TrimSpace(c.GetString(CtxUserTier))
	if tier == "" {
		return "free"
	}
	return tier
}
