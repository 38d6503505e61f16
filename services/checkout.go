package services

import (
	"errors"
	"time"

	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutInput is the validated request for converting selected cart rows
// into an order. ItemIDs scope the checkout to specific cart lines; rows
// belonging to other users are invisible to the query, never an error the
// caller can probe.
type CheckoutInput struct {
	UserID     uint
	ItemIDs    []uint
	CouponCode string
}

// CheckoutResult reports the committed outcome.
type CheckoutResult struct {
	OrderID  uint
	Status   string
	Total    decimal.Decimal
	Discount decimal.Decimal
	Balance  decimal.Decimal
}

// Checkout converts the caller's selected cart items into a PAID order
// inside one database transaction: lock cart rows and game prices, price the
// cart, re-evaluate the coupon under a lock on the code row, debit the
// wallet, write the order, its items, the ledger entry, the ownership grants
// and the redemption, then clear the consumed cart rows. Any failure rolls
// the whole transaction back with no observable effects.
//
// Insufficient balance aborts the transaction instead of committing a
// PENDING order, matching the direct-purchase path.
func Checkout(db *gorm.DB, in CheckoutInput) (CheckoutResult, error) {
	var res CheckoutResult

	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the cart rows and their games so prices and quantities are
		// stable for the rest of the transaction.
		var lines []CartLine
		if err := tx.Table("cart_items").
			Select("cart_items.id AS item_id, cart_items.qty, games.id AS game_id, games.title, games.price AS unit_price").
			Joins("JOIN games ON games.id = cart_items.game_id").
			Where("cart_items.user_id = ? AND cart_items.id IN ?", in.UserID, in.ItemIDs).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scan(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrItemsNotFound
		}

		subtotal := Subtotal(lines)

		discount := decimal.Zero
		var codeID *uint
		if in.CouponCode != "" {
			var code models.DiscountCode
			codePtr := &code
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("code = ?", utils.NormalizeCode(in.CouponCode)).
				First(&code).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				codePtr = nil
			}

			var prior int64
			if codePtr != nil {
				if err := tx.Model(&models.CodeRedemption{}).
					Where("code_id = ? AND user_id = ?", code.ID, in.UserID).
					Count(&prior).Error; err != nil {
					return err
				}
			}

			// A rejected coupon fails the entire checkout rather than
			// silently proceeding at full price.
			amount, err := EvaluateCoupon(codePtr, subtotal, prior, time.Now())
			if err != nil {
				return err
			}
			discount = amount
			codeID = &code.ID
		}

		total := TotalAfterDiscount(subtotal, discount)

		// The wallet balance gates the settle decision, so it is read under
		// a row lock before anything is written.
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, in.UserID).Error; err != nil {
			return err
		}
		if user.WalletBalance.LessThan(total) {
			return ErrInsufficientBalance
		}

		order := models.Order{
			UserID:              in.UserID,
			TotalBeforeDiscount: subtotal,
			DiscountAmount:      discount,
			TotalPaid:           total,
			Status:              models.OrderStatusPaid,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				GameID:    l.GameID,
				UnitPrice: l.UnitPrice,
				Qty:       l.Qty,
				Subtotal:  l.LineSubtotal(),
			})
		}
		if err := tx.Create(&items).Error; err != nil {
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
			Note:         "Order payment",
		}).Error; err != nil {
			return err
		}

		// Owning a game already is not an error on this path: the grant is
		// an insert-or-ignore keyed on the unique (user, game) pair.
		for _, l := range lines {
			grant := models.UserGame{
				UserID:      in.UserID,
				GameID:      l.GameID,
				PurchasedAt: time.Now(),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
				DoNothing: true,
			}).Create(&grant).Error; err != nil {
				return err
			}
		}

		// The redemption insert and the counter increment happen under the
		// same lock on the code row as the eligibility checks above.
		if codeID != nil {
			if err := tx.Create(&models.CodeRedemption{
				CodeID:  *codeID,
				UserID:  in.UserID,
				OrderID: order.ID,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.DiscountCode{}).Where("id = ?", *codeID).
				UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ? AND id IN ?", in.UserID, in.ItemIDs).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		res = CheckoutResult{
			OrderID:  order.ID,
			Status:   order.Status,
			Total:    total,
			Discount: discount,
			Balance:  newBalance,
		}
		return nil
	})

	return res, err
}
