package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants. PENDING exists in the enum for historical data but
// checkout never commits one: an order either settles as PAID inside the
// checkout transaction or the whole transaction rolls back.
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
)

// Order is the immutable record of one checkout or one direct purchase.
type Order struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	UserID              uint            `gorm:"index;not null" json:"user_id"`
	User                User            `gorm:"foreignKey:UserID" json:"-"`
	TotalBeforeDiscount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_before_discount"`
	DiscountAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	TotalPaid           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_paid"`
	Status              string          `gorm:"type:varchar(10);not null" json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	OrderItems          []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots the unit price at purchase time so later catalog price
// changes never rewrite history. Subtotal = round2(UnitPrice * Qty).
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	GameID    uint            `gorm:"index;not null" json:"game_id"`
	Game      Game            `gorm:"foreignKey:GameID" json:"game,omitempty"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Qty       int             `gorm:"not null" json:"qty"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}
