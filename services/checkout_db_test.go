package services

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/gamevault/gamevault/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and
// migrates the schema. Rollback and locking behavior needs a real Postgres,
// so these tests skip when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.Game{},
		&models.CartItem{},
		&models.DiscountCode{},
		&models.CodeRedemption{},
		&models.Order{},
		&models.OrderItem{},
		&models.WalletTransaction{},
		&models.UserGame{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, balance string) models.User {
	t.Helper()

	tag := uuid.New().String()[:8]
	user := models.User{
		Username:      "buyer-" + tag,
		Email:         fmt.Sprintf("buyer-%s@example.com", tag),
		PasswordHash:  "irrelevant",
		Role:          models.RoleUser,
		Status:        models.UserStatusActive,
		WalletBalance: dec(balance),
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() {
		var orderIDs []uint
		db.Model(&models.Order{}).Where("user_id = ?", user.ID).Pluck("id", &orderIDs)
		if len(orderIDs) > 0 {
			db.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{})
		}
		db.Where("user_id = ?", user.ID).Delete(&models.CodeRedemption{})
		db.Where("user_id = ?", user.ID).Delete(&models.WalletTransaction{})
		db.Where("user_id = ?", user.ID).Delete(&models.UserGame{})
		db.Where("user_id = ?", user.ID).Delete(&models.CartItem{})
		db.Where("user_id = ?", user.ID).Delete(&models.Order{})
		db.Delete(&models.User{}, user.ID)
	})
	return user
}

func seedGames(t *testing.T, db *gorm.DB, prices ...string) []models.Game {
	t.Helper()

	tag := uuid.New().String()[:8]
	category := models.Category{Name: "category-" + tag}
	require.NoError(t, db.Create(&category).Error)

	games := make([]models.Game, 0, len(prices))
	for i, price := range prices {
		game := models.Game{
			Title:      fmt.Sprintf("game-%s-%d", tag, i),
			Price:      dec(price),
			CategoryID: category.ID,
			Status:     models.GameStatusActive,
		}
		require.NoError(t, db.Create(&game).Error)
		games = append(games, game)
	}
	t.Cleanup(func() {
		for _, g := range games {
			db.Where("game_id = ?", g.ID).Delete(&models.OrderItem{})
			db.Where("game_id = ?", g.ID).Delete(&models.UserGame{})
			db.Where("game_id = ?", g.ID).Delete(&models.CartItem{})
			db.Delete(&models.Game{}, g.ID)
		}
		db.Delete(&models.Category{}, category.ID)
	})
	return games
}

func seedCode(t *testing.T, db *gorm.DB, mutate func(*models.DiscountCode)) models.DiscountCode {
	t.Helper()

	code := models.DiscountCode{
		Code:          "SAVE-" + strings.ToUpper(uuid.New().String()[:8]),
		DiscountType:  models.DiscountTypePercent,
		DiscountValue: dec("10"),
		PerUserLimit:  1,
		Active:        true,
	}
	if mutate != nil {
		mutate(&code)
	}
	require.NoError(t, db.Create(&code).Error)
	t.Cleanup(func() {
		db.Where("code_id = ?", code.ID).Delete(&models.CodeRedemption{})
		db.Delete(&models.DiscountCode{}, code.ID)
	})
	return code
}

func addCartItem(t *testing.T, db *gorm.DB, userID uint, game models.Game, qty int) models.CartItem {
	t.Helper()

	item := models.CartItem{UserID: userID, GameID: game.ID, Qty: qty}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCheckoutInsufficientBalanceRollsBack(t *testing.T) {
	db := openTestDB(t)

	user := seedUser(t, db, "10.00")
	games := seedGames(t, db, "29.99")
	item := addCartItem(t, db, user.ID, games[0], 1)
	code := seedCode(t, db, nil)

	_, err := Checkout(db, CheckoutInput{
		UserID:     user.ID,
		ItemIDs:    []uint{item.ID},
		CouponCode: code.Code,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "10.00", reloaded.WalletBalance.StringFixed(2))

	var cartRows, orders, ledger, grants, redemptions int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartRows)
	db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orders)
	db.Model(&models.WalletTransaction{}).Where("user_id = ?", user.ID).Count(&ledger)
	db.Model(&models.UserGame{}).Where("user_id = ?", user.ID).Count(&grants)
	db.Model(&models.CodeRedemption{}).Where("code_id = ?", code.ID).Count(&redemptions)
	assert.EqualValues(t, 1, cartRows, "cart row must survive the rollback")
	assert.Zero(t, orders)
	assert.Zero(t, ledger)
	assert.Zero(t, grants)
	assert.Zero(t, redemptions)

	var reloadedCode models.DiscountCode
	require.NoError(t, db.First(&reloadedCode, code.ID).Error)
	assert.Zero(t, reloadedCode.UsedCount)
}

func TestCheckoutStopsAtMaxUses(t *testing.T) {
	db := openTestDB(t)

	games := seedGames(t, db, "20.00")
	maxUses := 2
	code := seedCode(t, db, func(dc *models.DiscountCode) {
		dc.DiscountType = models.DiscountTypeAmount
		dc.DiscountValue = dec("5.00")
		dc.MaxUses = &maxUses
	})

	for i := 0; i < maxUses; i++ {
		user := seedUser(t, db, "100.00")
		item := addCartItem(t, db, user.ID, games[0], 1)
		res, err := Checkout(db, CheckoutInput{UserID: user.ID, ItemIDs: []uint{item.ID}, CouponCode: code.Code})
		require.NoError(t, err)
		assert.Equal(t, "15.00", res.Total.StringFixed(2))
	}

	last := seedUser(t, db, "100.00")
	item := addCartItem(t, db, last.ID, games[0], 1)
	_, err := Checkout(db, CheckoutInput{UserID: last.ID, ItemIDs: []uint{item.ID}, CouponCode: code.Code})
	require.ErrorIs(t, err, ErrCouponExhausted)

	var redemptions int64
	db.Model(&models.CodeRedemption{}).Where("code_id = ?", code.ID).Count(&redemptions)
	assert.EqualValues(t, maxUses, redemptions)

	var reloadedCode models.DiscountCode
	require.NoError(t, db.First(&reloadedCode, code.ID).Error)
	assert.Equal(t, maxUses, reloadedCode.UsedCount)

	// The rejected coupon fails the whole checkout: no order, no charge.
	var lastUser models.User
	require.NoError(t, db.First(&lastUser, last.ID).Error)
	assert.Equal(t, "100.00", lastUser.WalletBalance.StringFixed(2))

	var orders int64
	db.Model(&models.Order{}).Where("user_id = ?", last.ID).Count(&orders)
	assert.Zero(t, orders)
}

func TestOwnedGameCheckoutVsDirectPurchase(t *testing.T) {
	db := openTestDB(t)

	user := seedUser(t, db, "100.00")
	games := seedGames(t, db, "19.99")

	buy, err := BuyGame(db, PurchaseInput{UserID: user.ID, GameID: games[0].ID, Qty: 1})
	require.NoError(t, err)
	assert.Equal(t, "80.01", buy.Balance.StringFixed(2))

	// Buying the same game again directly is a hard error and must not
	// charge the wallet a second time.
	_, err = BuyGame(db, PurchaseInput{UserID: user.ID, GameID: games[0].ID, Qty: 1})
	require.ErrorIs(t, err, ErrAlreadyOwned)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "80.01", reloaded.WalletBalance.StringFixed(2))

	// Checking out a cart containing the owned game still succeeds; the
	// grant is insert-or-ignore and stays a single row.
	item := addCartItem(t, db, user.ID, games[0], 1)
	_, err = Checkout(db, CheckoutInput{UserID: user.ID, ItemIDs: []uint{item.ID}})
	require.NoError(t, err)

	var grants int64
	db.Model(&models.UserGame{}).
		Where("user_id = ? AND game_id = ?", user.ID, games[0].ID).
		Count(&grants)
	assert.EqualValues(t, 1, grants)
}

func TestCheckoutNeverOverspends(t *testing.T) {
	db := openTestDB(t)

	user := seedUser(t, db, "30.00")
	games := seedGames(t, db, "20.00", "20.00")
	first := addCartItem(t, db, user.ID, games[0], 1)
	second := addCartItem(t, db, user.ID, games[1], 1)

	res, err := Checkout(db, CheckoutInput{UserID: user.ID, ItemIDs: []uint{first.ID}})
	require.NoError(t, err)
	assert.Equal(t, "10.00", res.Balance.StringFixed(2))

	_, err = Checkout(db, CheckoutInput{UserID: user.ID, ItemIDs: []uint{second.ID}})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "10.00", reloaded.WalletBalance.StringFixed(2))
	assert.False(t, reloaded.WalletBalance.IsNegative())

	var purchases int64
	db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TransactionTypePurchase).
		Count(&purchases)
	assert.EqualValues(t, 1, purchases)
}

func TestWalletLedgerReplaysToBalance(t *testing.T) {
	db := openTestDB(t)

	user := seedUser(t, db, "0.00")
	games := seedGames(t, db, "29.99")

	balance, err := TopUp(db, user.ID, dec("50.00"))
	require.NoError(t, err)
	assert.Equal(t, "50.00", balance.StringFixed(2))

	_, err = BuyGame(db, PurchaseInput{UserID: user.ID, GameID: games[0].ID, Qty: 1})
	require.NoError(t, err)

	var entries []models.WalletTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "20.01", reloaded.WalletBalance.StringFixed(2))
	assert.True(t, ReplayBalance(entries).Equal(reloaded.WalletBalance),
		"ledger replays to %s, balance is %s", ReplayBalance(entries), reloaded.WalletBalance)
}
