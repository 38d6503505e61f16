package controllers

import (
	"strings"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/middleware"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a new account with a zero wallet balance.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.LogError("Registration failed - Invalid username: %s", req.Username)
		utils.BadRequest(c, "Invalid username", msg)
		return
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.LogError("Registration failed - Invalid email: %s", req.Email)
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.LogError("Registration failed - Weak password for: %s", req.Email)
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	var existing models.User
	if err := config.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		utils.LogError("Registration failed - Username or email taken: %s / %s", req.Username, req.Email)
		utils.Conflict(c, "Username or email already registered", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("Registration failed - Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Registration failed - Failed to create user: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	utils.LogInfo("User registered successfully: %s", user.Username)
	utils.Created(c, "Registration successful", gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser verifies credentials and issues a session token. The token is
// stored server side so it can be revoked; the cookie is HttpOnly.
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var user models.User
	query := config.DB
	switch {
	case req.Username != "":
		query = query.Where("username = ?", strings.TrimSpace(req.Username))
	case req.Email != "":
		query = query.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email)))
	default:
		utils.BadRequest(c, "Username or email required", nil)
		return
	}
	if err := query.First(&user).Error; err != nil {
		utils.LogError("Login failed - User not found")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.LogError("Login failed - Invalid password for user ID: %d", user.ID)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if user.Status != models.UserStatusActive {
		utils.LogError("Login failed - Disabled account: %d", user.ID)
		utils.Forbidden(c, "Account is disabled")
		return
	}

	cfg := config.App
	now := time.Now()
	session := models.Session{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		IssuedAt:  now,
		ExpiresAt: now.AddDate(0, 0, cfg.SessionDays),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := config.DB.Create(&session).Error; err != nil {
		utils.LogError("Login failed - Failed to create session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create session", nil)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookieName, session.Token, maxAge, "/", "", cfg.Env == "production", true)

	utils.LogInfo("User logged in successfully: %d", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": session.Token,
		"user": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"role":           user.Role,
			"wallet_balance": utils.Money(user.WalletBalance),
		},
	})
}

// LogoutUser revokes the current session server side and clears the cookie.
// Logout is idempotent from the client's point of view.
func LogoutUser(c *gin.Context) {
	sessionVal, exists := c.Get("session")
	if exists {
		session := sessionVal.(models.Session)
		now := time.Now()
		if err := config.DB.Model(&models.Session{}).Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"revoked_at":     now,
				"revoked_reason": "logout",
			}).Error; err != nil {
			utils.LogError("Failed to revoke session %d: %v", session.ID, err)
			utils.InternalServerError(c, "Failed to logout", nil)
			return
		}
		utils.LogInfo("Session %d revoked for user %d", session.ID, session.UserID)
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	utils.Success(c, "Logged out successfully", nil)
}

// GetCurrentUser returns the authenticated user's profile and balance.
func GetCurrentUser(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	cfg := config.App
	utils.Success(c, "User retrieved successfully", gin.H{
		"user": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"role":           user.Role,
			"status":         user.Status,
			"wallet_balance": utils.Money(user.WalletBalance),
			"avatar_url":     utils.PublicURL(cfg.PublicBaseURL, user.AvatarPath),
			"created_at":     user.CreatedAt,
		},
	})
}
