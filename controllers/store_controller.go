package controllers

import (
	"strconv"
	"strings"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// ListGames returns the public catalog: ACTIVE games only, with optional
// category filter, title search, price sorting and pagination.
func ListGames(c *gin.Context) {
	utils.LogInfo("ListGames called")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := config.DB.Model(&models.Game{}).
		Preload("Category").
		Where("status = ?", models.GameStatusActive)

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	switch c.Query("sort") {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("title ASC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count games: %v", err)
		utils.InternalServerError(c, "Failed to fetch games", nil)
		return
	}

	var games []models.Game
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&games).Error; err != nil {
		utils.LogError("Failed to fetch games: %v", err)
		utils.InternalServerError(c, "Failed to fetch games", nil)
		return
	}

	cfg := config.App
	items := make([]gin.H, 0, len(games))
	for _, g := range games {
		items = append(items, gin.H{
			"id":          g.ID,
			"title":       g.Title,
			"price":       utils.Money(g.Price),
			"category":    g.Category.Name,
			"category_id": g.CategoryID,
			"image_url":   utils.PublicURL(cfg.PublicBaseURL, g.ImagePath),
			"released_at": g.ReleasedAt,
		})
	}

	utils.LogInfo("Retrieved %d games (page %d)", len(games), page)
	utils.SuccessWithPagination(c, "Games retrieved successfully", items, total, page, perPage)
}

// GetGame returns one catalog entry. Inactive games are hidden from the
// public detail endpoint the same as missing ones.
func GetGame(c *gin.Context) {
	gameID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid game ID", nil)
		return
	}

	var game models.Game
	if err := config.DB.Preload("Category").
		Where("id = ? AND status = ?", gameID, models.GameStatusActive).
		First(&game).Error; err != nil {
		utils.LogError("Game not found: %d", gameID)
		utils.NotFound(c, "Game not found")
		return
	}

	cfg := config.App
	utils.Success(c, "Game retrieved successfully", gin.H{
		"game": gin.H{
			"id":          game.ID,
			"title":       game.Title,
			"price":       utils.Money(game.Price),
			"description": game.Description,
			"category":    game.Category.Name,
			"category_id": game.CategoryID,
			"image_url":   utils.PublicURL(cfg.PublicBaseURL, game.ImagePath),
			"released_at": game.ReleasedAt,
		},
	})
}

// ListCategories returns all categories for catalog filtering.
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to fetch categories", nil)
		return
	}

	utils.Success(c, "Categories retrieved successfully", gin.H{"categories": categories})
}
