package controllers

import (
	"strconv"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/services"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminGetUserTransactions returns one user's full wallet ledger for audit.
func AdminGetUserTransactions(c *gin.Context) {
	utils.LogInfo("AdminGetUserTransactions called")

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	entries, err := services.LedgerEntries(config.DB, user.ID, limit)
	if err != nil {
		utils.LogError("Failed to fetch ledger for user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to fetch transactions", nil)
		return
	}

	// Replay the full ledger and compare against the cached balance.
	var ledger []models.WalletTransaction
	if err := config.DB.Where("user_id = ?", user.ID).Order("id ASC").Find(&ledger).Error; err != nil {
		utils.LogError("Failed to fetch full ledger for user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to fetch transactions", nil)
		return
	}
	replayed := services.ReplayBalance(ledger)
	consistent := replayed.Equal(utils.Round2(user.WalletBalance))
	if !consistent {
		utils.LogError("Ledger mismatch for user %d: balance %s, replay %s",
			user.ID, utils.Money(user.WalletBalance), utils.Money(replayed))
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

	utils.Success(c, "Transactions retrieved successfully", gin.H{
		"user": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"wallet_balance": utils.Money(user.WalletBalance),
		},
		"ledger_consistent": consistent,
		"transactions":      transactions,
	})
}

// AdminGetWalletSummary aggregates the wallet system: totals per transaction
// type plus a ledger consistency check. The sum of all user balances must
// equal total topups minus total purchases; a mismatch means a balance was
// written outside the ledger.
func AdminGetWalletSummary(c *gin.Context) {
	utils.LogInfo("AdminGetWalletSummary called")

	var totals struct {
		TotalTopups    decimal.Decimal
		TotalPurchases decimal.Decimal
	}
	if err := config.DB.Table("wallet_transactions").
		Select(`COALESCE(SUM(CASE WHEN type = 'TOPUP' THEN amount ELSE 0 END), 0) AS total_topups,
			COALESCE(SUM(CASE WHEN type = 'PURCHASE' THEN amount ELSE 0 END), 0) AS total_purchases`).
		Scan(&totals).Error; err != nil {
		utils.LogError("Failed to aggregate wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch summary", nil)
		return
	}

	var balanceSum decimal.Decimal
	if err := config.DB.Table("users").
		Select("COALESCE(SUM(wallet_balance), 0)").
		Scan(&balanceSum).Error; err != nil {
		utils.LogError("Failed to sum wallet balances: %v", err)
		utils.InternalServerError(c, "Failed to fetch summary", nil)
		return
	}

	expected := utils.Round2(totals.TotalTopups.Sub(totals.TotalPurchases))
	consistent := expected.Equal(utils.Round2(balanceSum))
	if !consistent {
		utils.LogError("Wallet ledger mismatch: balances %s, ledger %s",
			utils.Money(balanceSum), utils.Money(expected))
	}

	var txCount int64
	if err := config.DB.Model(&models.WalletTransaction{}).Count(&txCount).Error; err != nil {
		utils.LogError("Failed to count wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch summary", nil)
		return
	}

	utils.Success(c, "Wallet summary retrieved successfully", gin.H{
		"total_topups":      utils.Money(totals.TotalTopups),
		"total_purchases":   utils.Money(totals.TotalPurchases),
		"balance_sum":       utils.Money(balanceSum),
		"ledger_expected":   utils.Money(expected),
		"ledger_consistent": consistent,
		"transaction_count": txCount,
	})
}
