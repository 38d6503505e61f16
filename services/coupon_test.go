package services

import (
	"testing"
	"time"

	"github.com/gamevault/gamevault/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func percentCode(value string) *models.DiscountCode {
	return &models.DiscountCode{
		ID:            1,
		Code:          "SAVE",
		DiscountType:  models.DiscountTypePercent,
		DiscountValue: dec(value),
		PerUserLimit:  1,
		Active:        true,
	}
}

func amountCode(value string) *models.DiscountCode {
	return &models.DiscountCode{
		ID:            2,
		Code:          "FLAT",
		DiscountType:  models.DiscountTypeAmount,
		DiscountValue: dec(value),
		PerUserLimit:  1,
		Active:        true,
	}
}

func TestEvaluateCouponPercent(t *testing.T) {
	now := time.Now()

	discount, err := EvaluateCoupon(percentCode("10"), dec("19.99"), 0, now)
	require.NoError(t, err)
	assert.True(t, dec("2.00").Equal(discount), "got %s", discount)

	discount, err = EvaluateCoupon(percentCode("10"), dec("59.98"), 0, now)
	require.NoError(t, err)
	assert.True(t, dec("6.00").Equal(discount), "got %s", discount)

	// Half-up rounding on the half cent.
	discount, err = EvaluateCoupon(percentCode("10"), dec("0.25"), 0, now)
	require.NoError(t, err)
	assert.True(t, dec("0.03").Equal(discount), "got %s", discount)
}

func TestEvaluateCouponAmountCappedAtSubtotal(t *testing.T) {
	now := time.Now()

	discount, err := EvaluateCoupon(amountCode("50"), dec("19.99"), 0, now)
	require.NoError(t, err)
	assert.True(t, dec("19.99").Equal(discount), "got %s", discount)

	discount, err = EvaluateCoupon(amountCode("5"), dec("19.99"), 0, now)
	require.NoError(t, err)
	assert.True(t, dec("5.00").Equal(discount), "got %s", discount)
}

func TestEvaluateCouponRejections(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	five := 5

	tests := []struct {
		name    string
		code    *models.DiscountCode
		prior   int64
		wantErr error
	}{
		{
			name:    "missing code",
			code:    nil,
			wantErr: ErrCouponNotFound,
		},
		{
			name: "inactive",
			code: func() *models.DiscountCode {
				c := percentCode("10")
				c.Active = false
				return c
			}(),
			wantErr: ErrCouponInactive,
		},
		{
			name: "not started",
			code: func() *models.DiscountCode {
				c := percentCode("10")
				c.StartAt = &future
				return c
			}(),
			wantErr: ErrCouponNotStarted,
		},
		{
			name: "expired",
			code: func() *models.DiscountCode {
				c := percentCode("10")
				c.EndAt = &past
				return c
			}(),
			wantErr: ErrCouponExpired,
		},
		{
			name: "globally exhausted",
			code: func() *models.DiscountCode {
				c := percentCode("10")
				c.MaxUses = &five
				c.UsedCount = 5
				return c
			}(),
			wantErr: ErrCouponExhausted,
		},
		{
			name:    "per-user limit reached",
			code:    percentCode("10"),
			prior:   1,
			wantErr: ErrCouponUserLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, err := EvaluateCoupon(tt.code, dec("100.00"), tt.prior, now)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, discount.IsZero())
		})
	}
}

func TestEvaluateCouponRejectionOrder(t *testing.T) {
	// A code that is inactive AND expired must always surface inactive first.
	past := time.Now().Add(-time.Hour)
	code := percentCode("10")
	code.Active = false
	code.EndAt = &past

	_, err := EvaluateCoupon(code, dec("100.00"), 0, time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestEvaluateCouponZeroDiscount(t *testing.T) {
	// A discount that rounds to zero is a rejection, not a free pass.
	_, err := EvaluateCoupon(percentCode("10"), dec("0.01"), 0, time.Now())
	assert.ErrorIs(t, err, ErrSubtotalTooLow)
}

func TestEvaluateCouponWindowBoundaries(t *testing.T) {
	now := time.Now()
	code := percentCode("10")
	code.StartAt = &now
	code.EndAt = &now

	// Exactly at the boundary instants the code is valid.
	discount, err := EvaluateCoupon(code, dec("100.00"), 0, now)
	require.NoError(t, err)
	assert.True(t, dec("10.00").Equal(discount))
}

func TestEvaluateCouponPerUserLimitAboveOne(t *testing.T) {
	code := percentCode("10")
	code.PerUserLimit = 3

	_, err := EvaluateCoupon(code, dec("100.00"), 2, time.Now())
	require.NoError(t, err)

	_, err = EvaluateCoupon(code, dec("100.00"), 3, time.Now())
	assert.ErrorIs(t, err, ErrCouponUserLimit)
}
