package services

import (
	"testing"

	"github.com/gamevault/gamevault/models"
	"github.com/stretchr/testify/assert"
)

func TestReplayBalance(t *testing.T) {
	entries := []models.WalletTransaction{
		{Type: models.TransactionTypeTopup, Amount: dec("100.00"), BalanceAfter: dec("100.00")},
		{Type: models.TransactionTypePurchase, Amount: dec("53.98"), BalanceAfter: dec("46.02")},
		{Type: models.TransactionTypeTopup, Amount: dec("20.00"), BalanceAfter: dec("66.02")},
		{Type: models.TransactionTypePurchase, Amount: dec("19.99"), BalanceAfter: dec("46.03")},
	}

	balance := ReplayBalance(entries)
	assert.True(t, dec("46.03").Equal(balance), "got %s", balance)
	assert.True(t, entries[len(entries)-1].BalanceAfter.Equal(balance))
}

func TestReplayBalanceEmptyLedger(t *testing.T) {
	assert.True(t, ReplayBalance(nil).IsZero())
}
