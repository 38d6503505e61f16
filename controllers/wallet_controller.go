package controllers

import (
	"errors"
	"strconv"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/services"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetWalletBalance returns the authenticated user's current balance.
func GetWalletBalance(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	// Re-read so the balance reflects any purchase committed since the
	// middleware loaded the user.
	var fresh models.User
	if err := config.DB.First(&fresh, user.ID).Error; err != nil {
		utils.LogError("Failed to fetch wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wallet", nil)
		return
	}

	utils.Success(c, "Wallet retrieved successfully", gin.H{
		"balance": utils.Money(fresh.WalletBalance),
	})
}

// TopUpWallet credits the wallet by a positive amount. The credit and its
// ledger entry commit together or not at all.
func TopUpWallet(c *gin.Context) {
	utils.LogInfo("TopUpWallet called")

	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid topup request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.LogError("Invalid topup amount %q for user ID: %d", req.Amount, user.ID)
		utils.BadRequest(c, "Invalid amount", "Amount must be a decimal number")
		return
	}

	utils.LogInfo("Processing topup of %s for user ID: %d", utils.Money(amount), user.ID)
	newBalance, err := services.TopUp(config.DB, user.ID, amount)
	if err != nil {
		utils.LogError("Topup failed for user ID: %d: %v", user.ID, err)
		if errors.Is(err, services.ErrInvalidAmount) {
			utils.BadRequest(c, "Amount must be positive", nil)
			return
		}
		utils.InternalServerError(c, "Topup failed", nil)
		return
	}

	utils.LogInfo("Topup completed for user ID: %d, new balance: %s", user.ID, utils.Money(newBalance))
	utils.Success(c, "Wallet topped up successfully", gin.H{
		"balance": utils.Money(newBalance),
	})
}

// GetWalletTransactions returns the user's wallet ledger, newest first.
func GetWalletTransactions(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := services.LedgerEntries(config.DB, user.ID, limit)
	if err != nil {
		utils.LogError("Failed to fetch wallet transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch transactions", nil)
		return
	}

	transactions := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		transactions = append(transactions, gin.H{
			"id":            e.ID,
			"type":          e.Type,
			"amount":        utils.Money(e.Amount),
			"balance_after": utils.Money(e.BalanceAfter),
			"ref_order_id":  e.RefOrderID,
			"note":          e.Note,
			"game_title":    e.GameTitle,
			"created_at":    e.CreatedAt,
		})
	}

	utils.LogInfo("Retrieved %d wallet transactions for user ID: %d", len(entries), user.ID)
	utils.Success(c, "Transactions retrieved successfully", gin.H{
		"transactions": transactions,
	})
}
