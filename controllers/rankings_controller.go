package controllers

import (
	"strconv"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gameRanking struct {
	GameID    uint            `json:"game_id"`
	Title     string          `json:"title"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"-"`
}

// topGames ranks the catalog by units sold. Only items belonging to PAID
// orders count; the status condition sits inside the item join so rows from
// unpaid orders can never contribute to the sums. Games that never sold are
// still returned with zero counts.
func topGames(db *gorm.DB, limit int) ([]gameRanking, error) {
	var rankings []gameRanking
	err := db.Table("games g").
		Select(`g.id AS game_id, g.title,
			COALESCE(SUM(oi.qty), 0) AS units_sold,
			COALESCE(SUM(oi.subtotal), 0) AS revenue`).
		Joins(`LEFT JOIN (order_items oi JOIN orders o ON o.id = oi.order_id AND o.status = 'PAID') ON oi.game_id = g.id`).
		Group("g.id, g.title").
		Order("units_sold DESC, g.title ASC").
		Limit(limit).
		Scan(&rankings).Error
	return rankings, err
}

// GetTopGames returns the best selling games so the catalog can render a
// complete leaderboard.
func GetTopGames(c *gin.Context) {
	utils.LogInfo("GetTopGames called")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rankings, err := topGames(config.DB, limit)
	if err != nil {
		utils.LogError("Failed to fetch game rankings: %v", err)
		utils.InternalServerError(c, "Failed to fetch rankings", nil)
		return
	}

	items := make([]gin.H, 0, len(rankings))
	for i, r := range rankings {
		items = append(items, gin.H{
			"rank":       i + 1,
			"game_id":    r.GameID,
			"title":      r.Title,
			"units_sold": r.UnitsSold,
			"revenue":    utils.Money(r.Revenue),
		})
	}

	utils.LogInfo("Retrieved %d game rankings", len(items))
	utils.Success(c, "Rankings retrieved successfully", gin.H{"rankings": items})
}

// GetStoreKPIs returns storefront-wide aggregates: total paid orders, gross
// revenue, total discounts granted and distinct buyers.
func GetStoreKPIs(c *gin.Context) {
	utils.LogInfo("GetStoreKPIs called")

	var kpis struct {
		TotalOrders    int64           `json:"total_orders"`
		GrossRevenue   decimal.Decimal `json:"-"`
		TotalDiscounts decimal.Decimal `json:"-"`
		TotalBuyers    int64           `json:"total_buyers"`
	}
	if err := config.DB.Table("orders").
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(total_paid), 0) AS gross_revenue,
			COALESCE(SUM(discount_amount), 0) AS total_discounts,
			COUNT(DISTINCT user_id) AS total_buyers`).
		Where("status = ?", "PAID").
		Scan(&kpis).Error; err != nil {
		utils.LogError("Failed to fetch store KPIs: %v", err)
		utils.InternalServerError(c, "Failed to fetch KPIs", nil)
		return
	}

	utils.Success(c, "KPIs retrieved successfully", gin.H{
		"total_orders":    kpis.TotalOrders,
		"gross_revenue":   utils.Money(kpis.GrossRevenue),
		"total_discounts": utils.Money(kpis.TotalDiscounts),
		"total_buyers":    kpis.TotalBuyers,
	})
}
