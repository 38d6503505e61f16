package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GameRequest represents the create/update request body for a catalog entry
type GameRequest struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	CategoryID  uint   `json:"category_id"`
	Description string `json:"description"`
	ReleasedAt  string `json:"released_at"`
	Status      string `json:"status"`
}

// AdminListGames lists the catalog for admins, inactive games included.
func AdminListGames(c *gin.Context) {
	utils.LogInfo("AdminListGames called")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := config.DB.Model(&models.Game{}).Preload("Category")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count games: %v", err)
		utils.InternalServerError(c, "Failed to fetch games", nil)
		return
	}

	var games []models.Game
	if err := query.Order("id DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&games).Error; err != nil {
		utils.LogError("Failed to fetch games: %v", err)
		utils.InternalServerError(c, "Failed to fetch games", nil)
		return
	}

	utils.SuccessWithPagination(c, "Games retrieved successfully", games, total, page, perPage)
}

// AdminGetGame returns one catalog entry regardless of status, with the
// image URL the storefront would serve.
func AdminGetGame(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid game ID", nil)
		return
	}

	var game models.Game
	if err := config.DB.Preload("Category").First(&game, gameID).Error; err != nil {
		utils.NotFound(c, "Game not found")
		return
	}

	cfg := config.App
	utils.Success(c, "Game retrieved successfully", gin.H{
		"game":      game,
		"image_url": utils.PublicURL(cfg.PublicBaseURL, game.ImagePath),
	})
}

// CreateGame adds a catalog entry.
func CreateGame(c *gin.Context) {
	utils.LogInfo("CreateGame called")

	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create game request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.BadRequest(c, "Title is required", nil)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		utils.BadRequest(c, "Invalid price", "Price must be a non-negative decimal number")
		return
	}

	if req.CategoryID != 0 {
		var category models.Category
		if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
			utils.BadRequest(c, "Category not found", nil)
			return
		}
	}

	game := models.Game{
		Title:       req.Title,
		Price:       utils.Round2(price),
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Status:      models.GameStatusActive,
	}
	if req.Status == models.GameStatusInactive {
		game.Status = models.GameStatusInactive
	}
	if req.ReleasedAt != "" {
		released, err := time.Parse("2006-01-02", req.ReleasedAt)
		if err != nil {
			utils.BadRequest(c, "Invalid released_at", "Expected YYYY-MM-DD")
			return
		}
		game.ReleasedAt = &released
	}

	if err := config.DB.Create(&game).Error; err != nil {
		utils.LogError("Failed to create game: %v", err)
		utils.InternalServerError(c, "Failed to create game", nil)
		return
	}

	utils.LogInfo("Game created: %d (%s)", game.ID, game.Title)
	utils.Created(c, "Game created successfully", gin.H{"game": game})
}

// UpdateGame modifies a catalog entry. Price changes never touch past
// orders; order items carry their own price snapshot.
func UpdateGame(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid game ID", nil)
		return
	}

	var game models.Game
	if err := config.DB.First(&game, gameID).Error; err != nil {
		utils.NotFound(c, "Game not found")
		return
	}

	var req GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			utils.BadRequest(c, "Invalid price", "Price must be a non-negative decimal number")
			return
		}
		updates["price"] = utils.Round2(price)
	}
	if req.CategoryID != 0 {
		var category models.Category
		if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
			utils.BadRequest(c, "Category not found", nil)
			return
		}
		updates["category_id"] = req.CategoryID
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Status != "" {
		if req.Status != models.GameStatusActive && req.Status != models.GameStatusInactive {
			utils.BadRequest(c, "Invalid status", "Status must be ACTIVE or INACTIVE")
			return
		}
		updates["status"] = req.Status
	}
	if req.ReleasedAt != "" {
		released, err := time.Parse("2006-01-02", req.ReleasedAt)
		if err != nil {
			utils.BadRequest(c, "Invalid released_at", "Expected YYYY-MM-DD")
			return
		}
		updates["released_at"] = released
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&game).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update game %d: %v", gameID, err)
		utils.InternalServerError(c, "Failed to update game", nil)
		return
	}

	utils.LogInfo("Game updated: %d", game.ID)
	utils.Success(c, "Game updated successfully", gin.H{"game": game})
}

// DeactivateGame hides a game from the store without touching ownership or
// order history. There is no hard delete for games that have been sold.
func DeactivateGame(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid game ID", nil)
		return
	}

	var game models.Game
	if err := config.DB.First(&game, gameID).Error; err != nil {
		utils.NotFound(c, "Game not found")
		return
	}

	if err := config.DB.Model(&game).Update("status", models.GameStatusInactive).Error; err != nil {
		utils.LogError("Failed to deactivate game %d: %v", gameID, err)
		utils.InternalServerError(c, "Failed to deactivate game", nil)
		return
	}

	utils.LogInfo("Game deactivated: %d", game.ID)
	utils.Success(c, "Game deactivated successfully", nil)
}

// UploadGameImage stores the cover image for a game.
func UploadGameImage(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid game ID", nil)
		return
	}

	var game models.Game
	if err := config.DB.First(&game, gameID).Error; err != nil {
		utils.NotFound(c, "Game not found")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "No file uploaded", nil)
		return
	}

	path, err := utils.SaveUploadedFile(file, "uploads/games")
	if err != nil {
		utils.LogError("Game image upload failed for game %d: %v", gameID, err)
		utils.BadRequest(c, "Invalid image file", err.Error())
		return
	}

	oldPath := game.ImagePath
	if err := config.DB.Model(&game).Update("image_path", path).Error; err != nil {
		utils.LogError("Failed to save image path for game %d: %v", gameID, err)
		utils.DeleteFileIfExists(path)
		utils.InternalServerError(c, "Failed to save image", nil)
		return
	}
	utils.DeleteFileIfExists(oldPath)

	cfg := config.App
	utils.LogInfo("Cover image updated for game %d", game.ID)
	utils.Success(c, "Image uploaded successfully", gin.H{
		"image_url": utils.PublicURL(cfg.PublicBaseURL, path),
	})
}
