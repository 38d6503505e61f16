package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount type constants
const (
	DiscountTypePercent = "PERCENT"
	DiscountTypeAmount  = "AMOUNT"
)

// DiscountCode is a named, capped, time-windowed pricing rule. UsedCount is a
// monotonic counter kept consistent with code_redemptions: both are only
// written under a FOR UPDATE lock on this row inside the checkout
// transaction. A code that has been redeemed at least once may not be
// deleted.
type DiscountCode struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null" json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `gorm:"type:varchar(10);not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_value"`
	MaxUses       *int            `json:"max_uses"`
	PerUserLimit  int             `gorm:"not null;default:1" json:"per_user_limit"`
	UsedCount     int             `gorm:"not null;default:0" json:"used_count"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	StartAt       *time.Time      `json:"start_at"`
	EndAt         *time.Time      `json:"end_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CodeRedemption is the append-only audit trail behind the per-user limit:
// one row per (code, user, order). Rows are never updated; they are removed
// only when an unused code is deleted and its history is cascaded away.
type CodeRedemption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CodeID    uint      `gorm:"index;not null" json:"code_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	OrderID   uint      `gorm:"not null" json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}
