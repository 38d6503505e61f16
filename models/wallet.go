package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet transaction type constants
const (
	TransactionTypeTopup    = "TOPUP"
	TransactionTypePurchase = "PURCHASE"
)

// WalletTransaction is one entry of the append-only wallet ledger, the source
// of truth for what happened to a user's balance. Amount is always a positive
// magnitude; Type says which direction it moved. BalanceAfter snapshots the
// balance at commit time, so replaying the ledger in id order (TOPUP adds,
// PURCHASE subtracts) must reproduce users.wallet_balance exactly.
type WalletTransaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index;not null" json:"user_id"`
	User         User            `gorm:"foreignKey:UserID" json:"-"`
	Type         string          `gorm:"type:varchar(10);not null" json:"type"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"balance_after"`
	RefOrderID   *uint           `gorm:"index" json:"ref_order_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
