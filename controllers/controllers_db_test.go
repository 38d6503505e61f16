package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// openTestDB connects to the database named by TEST_DATABASE_URL, migrates
// the schema and points the package globals at it. Handler tests need a real
// Postgres and skip when the variable is unset.
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

	config.DB = db
	if config.App == nil {
		config.App = &config.Config{Env: "test", PublicBaseURL: "http://localhost:8080"}
	}
	gin.SetMode(gin.TestMode)
	return db
}

func seedAccount(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	tag := uuid.New().String()[:8]
	user := models.User{
		Username:     "shopper-" + tag,
		Email:        fmt.Sprintf("shopper-%s@example.com", tag),
		PasswordHash: "irrelevant",
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(&user).Error)
	t.Cleanup(func() {
		var orderIDs []uint
		db.Model(&models.Order{}).Where("user_id = ?", user.ID).Pluck("id", &orderIDs)
		if len(orderIDs) > 0 {
			db.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{})
		}
		db.Where("user_id = ?", user.ID).Delete(&models.WalletTransaction{})
		db.Where("user_id = ?", user.ID).Delete(&models.UserGame{})
		db.Where("user_id = ?", user.ID).Delete(&models.CartItem{})
		db.Where("user_id = ?", user.ID).Delete(&models.Order{})
		db.Delete(&models.User{}, user.ID)
	})
	return user
}

func seedCatalog(t *testing.T, db *gorm.DB, count int) []models.Game {
	t.Helper()

	tag := uuid.New().String()[:8]
	category := models.Category{Name: "category-" + tag}
	require.NoError(t, db.Create(&category).Error)

	games := make([]models.Game, 0, count)
	for i := 0; i < count; i++ {
		game := models.Game{
			Title:      fmt.Sprintf("game-%s-%d", tag, i),
			Price:      dec("20.00"),
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

func testContext(t *testing.T, method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestTopGamesExcludeUnpaidOrders(t *testing.T) {
	db := openTestDB(t)

	user := seedAccount(t, db)
	games := seedCatalog(t, db, 2)
	unpaidGame, paidGame := games[0], games[1]

	pending := models.Order{
		UserID:              user.ID,
		TotalBeforeDiscount: dec("60.00"),
		DiscountAmount:      decimal.Zero,
		TotalPaid:           dec("60.00"),
		Status:              models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&pending).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID:   pending.ID,
		GameID:    unpaidGame.ID,
		UnitPrice: dec("20.00"),
		Qty:       3,
		Subtotal:  dec("60.00"),
	}).Error)

	paid := models.Order{
		UserID:              user.ID,
		TotalBeforeDiscount: dec("40.00"),
		DiscountAmount:      decimal.Zero,
		TotalPaid:           dec("40.00"),
		Status:              models.OrderStatusPaid,
	}
	require.NoError(t, db.Create(&paid).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID:   paid.ID,
		GameID:    paidGame.ID,
		UnitPrice: dec("20.00"),
		Qty:       2,
		Subtotal:  dec("40.00"),
	}).Error)

	rankings, err := topGames(db, 1000000)
	require.NoError(t, err)

	units := make(map[uint]int64, len(rankings))
	for _, r := range rankings {
		units[r.GameID] = r.UnitsSold
	}
	require.Contains(t, units, unpaidGame.ID)
	require.Contains(t, units, paidGame.ID)
	assert.EqualValues(t, 0, units[unpaidGame.ID], "items of unpaid orders must not count")
	assert.EqualValues(t, 2, units[paidGame.ID])
}

func TestFindDiscountCodeLookupFailureIsNotMissingCode(t *testing.T) {
	db := openTestDB(t)

	codePtr, err := findDiscountCode(db, "nope-"+uuid.New().String()[:8])
	require.NoError(t, err)
	assert.Nil(t, codePtr)

	broken, err := gorm.Open(postgres.Open(os.Getenv("TEST_DATABASE_URL")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := broken.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = findDiscountCode(broken, "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestValidateCouponUnknownCodeIs404(t *testing.T) {
	db := openTestDB(t)

	user := seedAccount(t, db)
	games := seedCatalog(t, db, 1)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, GameID: games[0].ID, Qty: 1}).Error)

	body := fmt.Sprintf(`{"code":"NOPE-%s"}`, strings.ToUpper(uuid.New().String()[:8]))
	c, w := testContext(t, http.MethodPost, body)
	c.Set("user", user)
	ValidateCoupon(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminGetGameIncludesInactive(t *testing.T) {
	db := openTestDB(t)

	games := seedCatalog(t, db, 1)
	require.NoError(t, db.Model(&models.Game{}).
		Where("id = ?", games[0].ID).
		Update("status", models.GameStatusInactive).Error)
	param := gin.Params{{Key: "id", Value: strconv.Itoa(int(games[0].ID))}}

	c, w := testContext(t, http.MethodGet, "")
	c.Params = param
	AdminGetGame(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), games[0].Title)

	// The storefront detail view hides the same game.
	c, w = testContext(t, http.MethodGet, "")
	c.Params = param
	GetGame(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminGetDiscountCodeDetail(t *testing.T) {
	db := openTestDB(t)

	code := models.DiscountCode{
		Code:          "FLAT-" + strings.ToUpper(uuid.New().String()[:8]),
		DiscountType:  models.DiscountTypeAmount,
		DiscountValue: dec("5.00"),
		PerUserLimit:  1,
		Active:        true,
	}
	require.NoError(t, db.Create(&code).Error)
	t.Cleanup(func() {
		db.Where("code_id = ?", code.ID).Delete(&models.CodeRedemption{})
		db.Delete(&models.DiscountCode{}, code.ID)
	})

	c, w := testContext(t, http.MethodGet, "")
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(code.ID))}}
	AdminGetDiscountCode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), code.Code)
	assert.Contains(t, w.Body.String(), "redemptions")
}
