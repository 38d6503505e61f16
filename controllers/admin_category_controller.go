package controllers

import (
	"strconv"
	"strings"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// CreateCategory adds a catalog category.
func CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.BadRequest(c, "Name is required", nil)
		return
	}

	var existing models.Category
	if err := config.DB.Where("LOWER(name) = LOWER(?)", req.Name).First(&existing).Error; err == nil {
		utils.Conflict(c, "Category already exists", nil)
		return
	}

	category := models.Category{Name: req.Name}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.LogError("Failed to create category: %v", err)
		utils.InternalServerError(c, "Failed to create category", nil)
		return
	}

	utils.LogInfo("Category created: %d (%s)", category.ID, category.Name)
	utils.Created(c, "Category created successfully", gin.H{"category": category})
}

// UpdateCategory renames a category.
func UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid category ID", nil)
		return
	}

	var category models.Category
	if err := config.DB.First(&category, categoryID).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	var existing models.Category
	if err := config.DB.Where("LOWER(name) = LOWER(?) AND id <> ?", req.Name, categoryID).First(&existing).Error; err == nil {
		utils.Conflict(c, "Category already exists", nil)
		return
	}

	if err := config.DB.Model(&category).Update("name", req.Name).Error; err != nil {
		utils.LogError("Failed to update category %d: %v", categoryID, err)
		utils.InternalServerError(c, "Failed to update category", nil)
		return
	}

	utils.LogInfo("Category updated: %d", category.ID)
	utils.Success(c, "Category updated successfully", gin.H{"category": category})
}

// DeleteCategory removes a category that has no games attached.
func DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid category ID", nil)
		return
	}

	var category models.Category
	if err := config.DB.First(&category, categoryID).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	var gameCount int64
	if err := config.DB.Model(&models.Game{}).Where("category_id = ?", categoryID).Count(&gameCount).Error; err != nil {
		utils.LogError("Failed to count games in category %d: %v", categoryID, err)
		utils.InternalServerError(c, "Failed to delete category", nil)
		return
	}
	if gameCount > 0 {
		utils.Conflict(c, "Category has games attached", gin.H{"game_count": gameCount})
		return
	}

	if err := config.DB.Delete(&category).Error; err != nil {
		utils.LogError("Failed to delete category %d: %v", categoryID, err)
		utils.InternalServerError(c, "Failed to delete category", nil)
		return
	}

	utils.LogInfo("Category deleted: %d", categoryID)
	utils.Success(c, "Category deleted successfully", nil)
}
