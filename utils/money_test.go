package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRound2HalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.999", "2.00"},
		{"1.995", "2.00"},
		{"1.994", "1.99"},
		{"0.005", "0.01"},
		{"2.00", "2.00"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		got := Round2(d(tt.in))
		assert.True(t, d(tt.want).Equal(got), "Round2(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestMulQty(t *testing.T) {
	assert.True(t, d("59.98").Equal(MulQty(d("29.99"), 2)))
	assert.True(t, d("19.99").Equal(MulQty(d("19.99"), 1)))
	assert.True(t, MulQty(d("9.99"), 0).IsZero())
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "2.00", Money(d("2")))
	assert.Equal(t, "19.99", Money(d("19.99")))
	assert.Equal(t, "0.00", Money(decimal.Zero))
}
