package utils

import "github.com/shopspring/decimal"

// Round2 rounds a currency amount to 2 decimal places, half away from zero.
// Every subtotal, discount and total goes through this at the point it is
// computed; unrounded fractions of a cent are never carried between steps.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MulQty multiplies a unit price by a quantity and rounds to 2 places.
func MulQty(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return Round2(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
}

// Money formats a decimal amount with exactly 2 decimal places for responses.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
