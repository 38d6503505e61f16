package services

import (
	"time"

	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/shopspring/decimal"
)

// EvaluateCoupon computes the discount a code yields on a subtotal, or
// returns the first failing eligibility check. It is a pure function: the
// caller is responsible for having loaded the code row (with a FOR UPDATE
// lock when the result is binding) and the user's prior redemption count for
// it. A nil code means the lookup found nothing.
//
// Checks run in a fixed order so a code that fails several ways always
// surfaces the same reason: not found, inactive, not started, expired,
// globally exhausted, per-user limit.
func EvaluateCoupon(code *models.DiscountCode, subtotal decimal.Decimal, priorRedemptions int64, now time.Time) (decimal.Decimal, error) {
	zero := decimal.Zero

	if code == nil {
		return zero, ErrCouponNotFound
	}
	if !code.Active {
		return zero, ErrCouponInactive
	}
	if code.StartAt != nil && now.Before(*code.StartAt) {
		return zero, ErrCouponNotStarted
	}
	if code.EndAt != nil && now.After(*code.EndAt) {
		return zero, ErrCouponExpired
	}
	if code.MaxUses != nil && code.UsedCount >= *code.MaxUses {
		return zero, ErrCouponExhausted
	}
	perUserLimit := code.PerUserLimit
	if perUserLimit < 1 {
		perUserLimit = 1
	}
	if priorRedemptions >= int64(perUserLimit) {
		return zero, ErrCouponUserLimit
	}

	var amount decimal.Decimal
	switch code.DiscountType {
	case models.DiscountTypePercent:
		amount = utils.Round2(subtotal.Mul(code.DiscountValue).Div(decimal.NewFromInt(100)))
	default:
		// AMOUNT discounts never exceed the subtotal
		amount = utils.Round2(decimal.Min(code.DiscountValue, subtotal))
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return zero, ErrSubtotalTooLow
	}

	return amount, nil
}
