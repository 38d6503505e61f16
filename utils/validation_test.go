package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid, _ := ValidateUsername("player_one")
	assert.True(t, valid)

	valid, _ = ValidateUsername("ab")
	assert.False(t, valid)

	valid, _ = ValidateUsername("has spaces")
	assert.False(t, valid)
}

func TestValidateEmail(t *testing.T) {
	valid, _ := ValidateEmail("user@example.com")
	assert.True(t, valid)

	valid, _ = ValidateEmail("not-an-email")
	assert.False(t, valid)
}

func TestValidatePassword(t *testing.T) {
	valid, _ := ValidatePassword("longenough")
	assert.True(t, valid)

	valid, msg := ValidatePassword("short")
	assert.False(t, valid)
	assert.NotEmpty(t, msg)
}

func TestValidateDiscountType(t *testing.T) {
	valid, _ := ValidateDiscountType("PERCENT")
	assert.True(t, valid)

	valid, _ = ValidateDiscountType("AMOUNT")
	assert.True(t, valid)

	valid, _ = ValidateDiscountType("percent")
	assert.False(t, valid)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode("  save10 "))
	assert.Equal(t, "SAVE10", NormalizeCode("SAVE10"))
}
