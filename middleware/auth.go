package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

// sessionToken pulls the token from the session cookie, falling back to a
// Bearer Authorization header for non-browser clients.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware resolves the session token against the sessions table and
// sets the owning user in the request context. Revoked and expired sessions
// are rejected the same way as missing ones.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			utils.LogError("Missing session token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		var session models.Session
		if err := config.DB.Where("token = ?", token).First(&session).Error; err != nil {
			utils.LogError("Unknown session token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		if session.RevokedAt != nil {
			utils.LogError("Revoked session used for user %d", session.UserID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has been revoked"})
			c.Abort()
			return
		}

		if time.Now().After(session.ExpiresAt) {
			utils.LogError("Expired session used for user %d", session.UserID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has expired"})
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.First(&user, session.UserID).Error; err != nil {
			utils.LogError("Session user not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if user.Status != models.UserStatusActive {
			utils.LogError("Inactive user attempted access: %d", user.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("session", session)
		utils.LogDebug("User %d authenticated", user.ID)
		c.Next()
	}
}

// AdminMiddleware requires a user already set by AuthMiddleware to carry the
// ADMIN role.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			utils.LogError("User not found in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		userModel, ok := user.(models.User)
		if !ok {
			utils.LogError("Invalid user type in context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user type"})
			c.Abort()
			return
		}

		if userModel.Role != models.RoleAdmin {
			utils.LogError("Non-admin user attempted admin access: %d", userModel.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
