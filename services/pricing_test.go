package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtotal(t *testing.T) {
	lines := []CartLine{
		{ItemID: 1, GameID: 1, UnitPrice: dec("29.99"), Qty: 2},
		{ItemID: 2, GameID: 2, UnitPrice: dec("9.99"), Qty: 1},
	}

	assert.True(t, dec("69.97").Equal(Subtotal(lines)))
}

func TestSubtotalEmpty(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
}

func TestLineSubtotalRoundsPerLine(t *testing.T) {
	line := CartLine{UnitPrice: dec("0.335"), Qty: 1}
	assert.True(t, dec("0.34").Equal(line.LineSubtotal()))
}

func TestTotalAfterDiscount(t *testing.T) {
	total := TotalAfterDiscount(dec("59.98"), dec("6.00"))
	assert.True(t, dec("53.98").Equal(total))
}

func TestTotalAfterDiscountClampedAtZero(t *testing.T) {
	total := TotalAfterDiscount(dec("10.00"), dec("15.00"))
	assert.True(t, total.IsZero())
}

func TestCheckoutPricingWithPercentCoupon(t *testing.T) {
	// Two copies at 29.99 with a 10 percent code comes to 53.98.
	lines := []CartLine{
		{ItemID: 1, GameID: 1, UnitPrice: dec("29.99"), Qty: 2},
	}
	subtotal := Subtotal(lines)
	require.True(t, dec("59.98").Equal(subtotal))

	discount, err := EvaluateCoupon(percentCode("10"), subtotal, 0, time.Now())
	require.NoError(t, err)
	assert.True(t, dec("6.00").Equal(discount))

	total := TotalAfterDiscount(subtotal, discount)
	assert.True(t, dec("53.98").Equal(total))
}

func TestAmountCouponNeverExceedsSubtotal(t *testing.T) {
	lines := []CartLine{
		{ItemID: 1, GameID: 1, UnitPrice: dec("19.99"), Qty: 1},
	}
	subtotal := Subtotal(lines)

	discount, err := EvaluateCoupon(amountCode("50"), subtotal, 0, time.Now())
	require.NoError(t, err)

	total := TotalAfterDiscount(subtotal, discount)
	assert.False(t, total.IsNegative())
	assert.True(t, total.Equal(decimal.Zero))
}
