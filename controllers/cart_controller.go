package controllers

import (
	"strconv"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/services"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

const maxCartQty = 5

// cartSummary builds the priced cart view shared by all cart responses.
func cartSummary(userID uint) (gin.H, error) {
	var items []models.CartItem
	if err := config.DB.Preload("Game").Preload("Game.Category").
		Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	cfg := config.App
	lines := make([]services.CartLine, 0, len(items))
	minimalItems := make([]gin.H, 0, len(items))
	canCheckout := len(items) > 0
	for _, item := range items {
		line := services.CartLine{
			ItemID:    item.ID,
			GameID:    item.GameID,
			Title:     item.Game.Title,
			UnitPrice: item.Game.Price,
			Qty:       item.Qty,
		}
		lines = append(lines, line)
		if item.Game.Status != models.GameStatusActive {
			canCheckout = false
		}
		minimalItems = append(minimalItems, gin.H{
			"item_id":    item.ID,
			"game_id":    item.GameID,
			"title":      item.Game.Title,
			"image_url":  utils.PublicURL(cfg.PublicBaseURL, item.Game.ImagePath),
			"unit_price": utils.Money(item.Game.Price),
			"qty":        item.Qty,
			"subtotal":   utils.Money(line.LineSubtotal()),
			"available":  item.Game.Status == models.GameStatusActive,
		})
	}

	return gin.H{
		"items":        minimalItems,
		"subtotal":     utils.Money(services.Subtotal(lines)),
		"can_checkout": canCheckout,
	}, nil
}

// GetCart returns the user's cart with per-line and total pricing.
func GetCart(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	summary, err := cartSummary(user.ID)
	if err != nil {
		utils.LogError("Failed to fetch cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}

	utils.Success(c, "Cart retrieved successfully", summary)
}

// AddToCart adds a game to the cart or bumps the quantity of an existing
// line. The (user, game) pair stays unique either way.
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")

	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req struct {
		GameID uint `json:"game_id" binding:"required"`
		Qty    int  `json:"qty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid add to cart request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}
	if req.Qty > maxCartQty {
		req.Qty = maxCartQty
	}

	var game models.Game
	if err := config.DB.First(&game, req.GameID).Error; err != nil {
		utils.LogError("Game not found: %d for user ID: %d", req.GameID, user.ID)
		utils.NotFound(c, "Game not found")
		return
	}
	if game.Status != models.GameStatusActive {
		utils.LogError("Inactive game %d added to cart by user ID: %d", req.GameID, user.ID)
		utils.BadRequest(c, "Game is not available", nil)
		return
	}

	var owned int64
	if err := config.DB.Model(&models.UserGame{}).
		Where("user_id = ? AND game_id = ?", user.ID, req.GameID).
		Count(&owned).Error; err != nil {
		utils.LogError("Failed to check ownership for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}
	if owned > 0 {
		utils.LogError("User ID: %d already owns game %d", user.ID, req.GameID)
		utils.Conflict(c, "You already own this game", nil)
		return
	}

	var successMessage string
	var existing models.CartItem
	if err := config.DB.Where("user_id = ? AND game_id = ?", user.ID, req.GameID).
		First(&existing).Error; err == nil {
		newQty := existing.Qty + req.Qty
		if newQty > maxCartQty {
			newQty = maxCartQty
		}
		existing.Qty = newQty
		if err := config.DB.Save(&existing).Error; err != nil {
			utils.LogError("Failed to update cart line for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
		successMessage = "Cart item quantity updated"
		utils.LogInfo("Updated cart quantity for game %d to %d for user ID: %d", req.GameID, newQty, user.ID)
	} else {
		item := models.CartItem{
			UserID: user.ID,
			GameID: req.GameID,
			Qty:    req.Qty,
		}
		if err := config.DB.Create(&item).Error; err != nil {
			utils.LogError("Failed to add to cart for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to add to cart", nil)
			return
		}
		successMessage = "Item added to cart successfully"
		utils.LogInfo("Added game %d to cart for user ID: %d", req.GameID, user.ID)
	}

	summary, err := cartSummary(user.ID)
	if err != nil {
		utils.LogError("Failed to fetch updated cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch updated cart", nil)
		return
	}
	utils.Success(c, successMessage, summary)
}

// UpdateCartItem sets the quantity of one cart line. Quantity zero removes
// the line.
func UpdateCartItem(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	var req struct {
		Qty *int `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid cart update request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var item models.CartItem
	if err := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
		utils.LogError("Cart item %d not found for user ID: %d", itemID, user.ID)
		utils.NotFound(c, "Cart item not found")
		return
	}

	qty := *req.Qty
	switch {
	case qty <= 0:
		if err := config.DB.Delete(&item).Error; err != nil {
			utils.LogError("Failed to remove cart item %d for user ID: %d: %v", itemID, user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
		utils.LogInfo("Removed cart item %d for user ID: %d", itemID, user.ID)
	case qty > maxCartQty:
		utils.BadRequest(c, "Quantity exceeds the per-item limit", gin.H{"max_qty": maxCartQty})
		return
	default:
		item.Qty = qty
		if err := config.DB.Save(&item).Error; err != nil {
			utils.LogError("Failed to update cart item %d for user ID: %d: %v", itemID, user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
		utils.LogInfo("Updated cart item %d to qty %d for user ID: %d", itemID, qty, user.ID)
	}

	summary, err := cartSummary(user.ID)
	if err != nil {
		utils.LogError("Failed to fetch updated cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch updated cart", nil)
		return
	}
	utils.Success(c, "Cart updated successfully", summary)
}

// RemoveCartItem deletes one cart line.
func RemoveCartItem(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		utils.LogError("Failed to remove cart item %d for user ID: %d: %v", itemID, user.ID, result.Error)
		utils.InternalServerError(c, "Failed to remove cart item", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Cart item not found")
		return
	}

	utils.LogInfo("Removed cart item %d for user ID: %d", itemID, user.ID)
	summary, err := cartSummary(user.ID)
	if err != nil {
		utils.LogError("Failed to fetch updated cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch updated cart", nil)
		return
	}
	utils.Success(c, "Item removed from cart", summary)
}
