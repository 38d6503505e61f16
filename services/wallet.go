package services

import (
	"time"

	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TopUp credits a user's wallet and records the matching TOPUP ledger entry
// in the same transaction. This is the only credit path; every balance
// mutation in the system has exactly one ledger row with a consistent
// balance_after snapshot.
func TopUp(db *gorm.DB, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			return err
		}

		newBalance = utils.Round2(user.WalletBalance.Add(utils.Round2(amount)))
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("wallet_balance", newBalance).Error; err != nil {
			return err
		}

		return tx.Create(&models.WalletTransaction{
			UserID:       userID,
			Type:         models.TransactionTypeTopup,
			Amount:       utils.Round2(amount),
			BalanceAfter: newBalance,
			Note:         "Wallet topup",
		}).Error
	})

	return newBalance, err
}

// LedgerEntry is one wallet transaction as presented to clients, with the
// first game title of the referenced order when there is one.
type LedgerEntry struct {
	ID           uint            `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	RefOrderID   *uint           `json:"ref_order_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	GameTitle    string          `json:"game_title,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LedgerEntries returns a user's wallet history, newest first.
func LedgerEntries(db *gorm.DB, userID uint, limit int) ([]LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	var entries []LedgerEntry
	err := db.Table("wallet_transactions wt").
		Select(`wt.id, wt.type, wt.amount, wt.balance_after, wt.ref_order_id, wt.note, wt.created_at,
			COALESCE((SELECT g.title FROM order_items oi JOIN games g ON g.id = oi.game_id
				WHERE oi.order_id = wt.ref_order_id ORDER BY oi.id LIMIT 1), '') AS game_title`).
		Where("wt.user_id = ?", userID).
		Order("wt.id DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// ReplayBalance folds a user's ledger from zero: TOPUP adds, PURCHASE
// subtracts. The result must equal users.wallet_balance at all times; the
// admin audit endpoint uses it as a consistency check.
func ReplayBalance(entries []models.WalletTransaction) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case models.TransactionTypeTopup:
			balance = balance.Add(e.Amount)
		case models.TransactionTypePurchase:
			balance = balance.Sub(e.Amount)
		}
	}
	return utils.Round2(balance)
}
