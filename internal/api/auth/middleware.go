// Package auth provides session handling and access control middleware.
package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/api/models"
)

// Session value keys.
const (
	SessionUserID   = "user_id"
	SessionUsername = "user_username"
	SessionEmail    = "user_email"
	SessionIsAdmin  = "user_is_admin"
)

// RequireAuth rejects requests without a valid session and loads the
// session identity into the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserID)
		if userID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		// create user model from session data
		user := &models.User{
			ID:       userID.(uint),
			Username: session.Get(SessionUsername).(string),
			Email:    session.Get(SessionEmail).(string),
			IsAdmin:  session.Get(SessionIsAdmin).(bool),
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
	}
}

// RequireAdmin rejects requests from non-admin sessions. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.User)
		if !ok || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
