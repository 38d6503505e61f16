package controllers

import (
	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// GetMyGames returns the user's library: every game they own, newest first.
func GetMyGames(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var grants []models.UserGame
	if err := config.DB.Preload("Game").Preload("Game.Category").
		Where("user_id = ?", user.ID).
		Order("purchased_at DESC").
		Find(&grants).Error; err != nil {
		utils.LogError("Failed to fetch library for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch library", nil)
		return
	}

	cfg := config.App
	games := make([]gin.H, 0, len(grants))
	for _, grant := range grants {
		games = append(games, gin.H{
			"game_id":      grant.GameID,
			"title":        grant.Game.Title,
			"category":     grant.Game.Category.Name,
			"image_url":    utils.PublicURL(cfg.PublicBaseURL, grant.Game.ImagePath),
			"purchased_at": grant.PurchasedAt,
		})
	}

	utils.LogInfo("Retrieved %d library entries for user ID: %d", len(games), user.ID)
	utils.Success(c, "Library retrieved successfully", gin.H{"games": games})
}
