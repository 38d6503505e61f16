package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// AdminListUsers lists accounts with optional search and status filter.
func AdminListUsers(c *gin.Context) {
	utils.LogInfo("AdminListUsers called")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := config.DB.Model(&models.User{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("username ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}

	var users []models.User
	if err := query.Order("id ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, gin.H{
			"id":             u.ID,
			"username":       u.Username,
			"email":          u.Email,
			"role":           u.Role,
			"status":         u.Status,
			"wallet_balance": utils.Money(u.WalletBalance),
			"created_at":     u.CreatedAt,
		})
	}

	utils.SuccessWithPagination(c, "Users retrieved successfully", items, total, page, perPage)
}

// AdminUpdateUser changes an account's status or role. Disabling an account
// revokes all of its live sessions in the same transaction so the ban takes
// effect immediately.
func AdminUpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	adminVal, _ := c.Get("user")
	admin := adminVal.(models.User)
	if uint(userID) == admin.ID {
		utils.BadRequest(c, "Cannot modify your own account", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	var req struct {
		Status   string `json:"status"`
		Role     string `json:"role"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
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
		if err := config.DB.Where("username = ? AND id <> ?", req.Username, userID).First(&existing).Error; err == nil {
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
		if err := config.DB.Where("email = ? AND id <> ?", req.Email, userID).First(&existing).Error; err == nil {
			utils.Conflict(c, "Email already registered", nil)
			return
		}
		updates["email"] = req.Email
	}
	if req.Status != "" {
		if req.Status != models.UserStatusActive && req.Status != models.UserStatusInactive {
			utils.BadRequest(c, "Invalid status", "Status must be ACTIVE or INACTIVE")
			return
		}
		updates["status"] = req.Status
	}
	if req.Role != "" {
		if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
			utils.BadRequest(c, "Invalid role", "Role must be USER or ADMIN")
			return
		}
		updates["role"] = req.Role
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	if err := tx.Model(&user).Updates(updates).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	if req.Status == models.UserStatusInactive {
		if err := tx.Model(&models.Session{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Updates(map[string]interface{}{
				"revoked_at":     time.Now(),
				"revoked_reason": "account disabled",
			}).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to revoke sessions for user %d: %v", userID, err)
			utils.InternalServerError(c, "Failed to update user", nil)
			return
		}
		utils.LogInfo("Revoked all sessions for disabled user %d", userID)
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit user update for %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to update user", nil)
		return
	}

	utils.LogInfo("User %d updated by admin %d", userID, admin.ID)
	utils.Success(c, "User updated successfully", gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"status":   user.Status,
		},
	})
}
