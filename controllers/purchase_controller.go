package controllers

import (
	"errors"
	"strconv"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/services"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// BuyGame charges the wallet for a single game directly, skipping the cart.
// No coupons on this path.
func BuyGame(c *gin.Context) {
	utils.LogInfo("BuyGame called")

	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	gameID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid game ID", nil)
		return
	}

	var req struct {
		Qty int `json:"qty"`
	}
	// The body is optional; a bare POST buys one copy.
	_ = c.ShouldBindJSON(&req)
	if req.Qty < 1 {
		req.Qty = 1
	}
	if req.Qty > maxCartQty {
		utils.BadRequest(c, "Quantity exceeds the per-item limit", gin.H{"max_qty": maxCartQty})
		return
	}

	utils.LogInfo("Processing direct purchase of game %d x%d for user ID: %d", gameID, req.Qty, user.ID)
	result, err := services.BuyGame(config.DB, services.PurchaseInput{
		UserID: user.ID,
		GameID: uint(gameID),
		Qty:    req.Qty,
	})
	if err != nil {
		utils.LogError("Direct purchase failed for user ID: %d, game %d: %v", user.ID, gameID, err)
		switch {
		case errors.Is(err, services.ErrGameUnavailable):
			utils.NotFound(c, "Game not available")
		case errors.Is(err, services.ErrAlreadyOwned):
			utils.Conflict(c, "You already own this game", nil)
		case errors.Is(err, services.ErrInsufficientBalance):
			utils.PaymentRequired(c, "Insufficient wallet balance")
		default:
			utils.InternalServerError(c, "Purchase failed", nil)
		}
		return
	}

	utils.LogInfo("Direct purchase completed for user ID: %d, order ID: %d", user.ID, result.OrderID)
	utils.Created(c, "Purchase successful", gin.H{
		"order": gin.H{
			"id":    result.OrderID,
			"total": utils.Money(result.Total),
		},
		"wallet_balance": utils.Money(result.Balance),
	})
}
