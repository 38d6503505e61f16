package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseInput is the validated request for a direct "buy now" purchase of
// a single game outside the cart flow. No coupon handling on this path.
type PurchaseInput struct {
	UserID uint
	GameID uint
	Qty    int
}

// PurchaseResult reports the committed outcome of a direct purchase.
type PurchaseResult struct {
	OrderID uint
	Total   decimal.Decimal
	Balance decimal.Decimal
}

// BuyGame charges the caller's wallet for one game in a single transaction.
// Unlike the checkout path, buying a game the user already owns is a hard
// error here: the storefront "buy now" button must not silently re-charge
// for something already in the library.
func BuyGame(db *gorm.DB, in PurchaseInput) (PurchaseResult, error) {
	var res PurchaseResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&game, in.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameUnavailable
			}
			return err
		}
		if game.Status != models.GameStatusActive {
			return ErrGameUnavailable
		}

		var owned int64
		if err := tx.Model(&models.UserGame{}).
			Where("user_id = ? AND game_id = ?", in.UserID, in.GameID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return ErrAlreadyOwned
		}

		total := utils.MulQty(game.Price, in.Qty)

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, in.UserID).Error; err != nil {
			return err
		}
		if user.WalletBalance.LessThan(total) {
			return ErrInsufficientBalance
		}

		// Insufficient balance was rejected above, so the order settles as
		// PAID in one step; no PENDING order is reachable on this path.
		order := models.Order{
			UserID:              in.UserID,
			TotalBeforeDiscount: total,
			DiscountAmount:      decimal.Zero,
			TotalPaid:           total,
			Status:              models.OrderStatusPaid,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.OrderItem{
			OrderID:   order.ID,
			GameID:    game.ID,
			UnitPrice: game.Price,
			Qty:       in.Qty,
			Subtotal:  total,
		}).Error; err != nil {
			return err
		}

		newBalance := utils.Round2(user.WalletBalance.Sub(total))
		if err := tx.Model(&models.User{}).Where("id = ?", in.UserID).
			Update("wallet_balance", newBalance).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.WalletTransaction{
			UserID:       in.UserID,
			Type:         models.TransactionTypePurchase,
			Amount:       total,
			BalanceAfter: newBalance,
			RefOrderID:   &order.ID,
			Note:         fmt.Sprintf("Purchase: %s", game.Title),
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.UserGame{
			UserID:      in.UserID,
			GameID:      game.ID,
			PurchasedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		res = PurchaseResult{
			OrderID: order.ID,
			Total:   total,
			Balance: newBalance,
		}
		return nil
	})

	return res, err
}
