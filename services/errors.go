package services

import "errors"

// Sentinel errors raised inside the checkout, purchase and wallet
// transactions. Any of these aborts the whole transaction; controllers map
// them to HTTP statuses. The message strings are part of the API: clients
// match on them to distinguish bad input from exhausted resources.
var (
	ErrItemsNotFound       = errors.New("items not found")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon inactive")
	ErrCouponNotStarted    = errors.New("coupon not started")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrCouponExhausted     = errors.New("coupon exhausted")
	ErrCouponUserLimit     = errors.New("user limit reached")
	ErrSubtotalTooLow      = errors.New("subtotal too low")
	ErrGameUnavailable     = errors.New("game unavailable")
	ErrAlreadyOwned        = errors.New("game already owned")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
