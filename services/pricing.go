package services

import (
	"github.com/gamevault/gamevault/utils"
	"github.com/shopspring/decimal"
)

// CartLine is one locked cart row joined with the game it references. The
// unit price is the lock-time snapshot; it is never re-read after this.
type CartLine struct {
	ItemID    uint
	GameID    uint
	Title     string
	UnitPrice decimal.Decimal
	Qty       int
}

// LineSubtotal returns round2(unit price * qty) for one line.
func (l CartLine) LineSubtotal() decimal.Decimal {
	return utils.MulQty(l.UnitPrice, l.Qty)
}

// Subtotal sums the rounded line subtotals of a priced cart.
func Subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineSubtotal())
	}
	return utils.Round2(sum)
}

// TotalAfterDiscount applies a discount to a subtotal, clamped at zero.
func TotalAfterDiscount(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := utils.Round2(subtotal.Sub(discount))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
