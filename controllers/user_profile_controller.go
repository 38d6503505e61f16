package controllers

import (
	"strings"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UpdateProfile changes the username and/or email of the authenticated user.
func UpdateProfile(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid profile update request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		req.Username = strings.TrimSpace(req.Username)
		if valid, msg := utils.ValidateUsername(req.Username); !valid {
			utils.BadRequest(c, "Invalid username", msg)
			return
		}
		var existing models.User
		if err := config.DB.Where("username = ? AND id <> ?", req.Username, user.ID).First(&existing).Error; err == nil {
			utils.Conflict(c, "Username already taken", nil)
			return
		}
		updates["username"] = req.Username
	}
	if req.Email != "" {
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if valid, msg := utils.ValidateEmail(req.Email); !valid {
			utils.BadRequest(c, "Invalid email", msg)
			return
		}
		var existing models.User
		if err := config.DB.Where("email = ? AND id <> ?", req.Email, user.ID).First(&existing).Error; err == nil {
			utils.Conflict(c, "Email already registered", nil)
			return
		}
		updates["email"] = req.Email
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile", nil)
		return
	}

	utils.LogInfo("Profile updated for user ID: %d", user.ID)
	utils.Success(c, "Profile updated successfully", nil)
}

// ChangePassword verifies the current password before setting a new one and
// revokes every other session of the user.
func ChangePassword(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		utils.LogError("Password change failed - wrong current password for user ID: %d", user.ID)
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	if valid, msg := utils.ValidatePassword(req.NewPassword); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("Failed to hash new password for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to change password", nil)
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password_hash", string(hashedPassword)).Error; err != nil {
		utils.LogError("Failed to update password for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to change password", nil)
		return
	}

	// A password change invalidates every other session the user holds.
	sessionVal, _ := c.Get("session")
	currentSession := sessionVal.(models.Session)
	if err := config.DB.Model(&models.Session{}).
		Where("user_id = ? AND id <> ? AND revoked_at IS NULL", user.ID, currentSession.ID).
		Updates(map[string]interface{}{
			"revoked_at":     time.Now(),
			"revoked_reason": "password change",
		}).Error; err != nil {
		utils.LogError("Failed to revoke sessions after password change for user ID: %d: %v", user.ID, err)
	}

	utils.LogInfo("Password changed for user ID: %d", user.ID)
	utils.Success(c, "Password changed successfully", nil)
}

// UploadAvatar stores a new profile image and replaces any previous one.
func UploadAvatar(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	file, err := c.FormFile("avatar")
	if err != nil {
		utils.BadRequest(c, "No file uploaded", nil)
		return
	}

	path, err := utils.SaveUploadedFile(file, "uploads/avatars")
	if err != nil {
		utils.LogError("Avatar upload failed for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid image file", err.Error())
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Update("avatar_path", path).Error; err != nil {
		utils.LogError("Failed to save avatar path for user ID: %d: %v", user.ID, err)
		utils.DeleteFileIfExists(path)
		utils.InternalServerError(c, "Failed to save avatar", nil)
		return
	}

	utils.DeleteFileIfExists(user.AvatarPath)

	cfg := config.App
	utils.LogInfo("Avatar updated for user ID: %d", user.ID)
	utils.Success(c, "Avatar uploaded successfully", gin.H{
		"avatar_url": utils.PublicURL(cfg.PublicBaseURL, path),
	})
}

// DeleteAvatar removes the user's profile image.
func DeleteAvatar(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Update("avatar_path", "").Error; err != nil {
		utils.LogError("Failed to clear avatar for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to delete avatar", nil)
		return
	}

	utils.DeleteFileIfExists(user.AvatarPath)
	utils.LogInfo("Avatar deleted for user ID: %d", user.ID)
	utils.Success(c, "Avatar deleted successfully", nil)
}
