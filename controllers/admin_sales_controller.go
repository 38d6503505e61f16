package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// reportWindow resolves the period query parameter to a time range.
func reportWindow(period string) (time.Time, time.Time, bool) {
	now := time.Now()
	switch period {
	case "day":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now, true
	case "week":
		end := now
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
		return start, end, true
	case "month":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -30)
		return start, now, true
	}
	return time.Time{}, time.Time{}, false
}

type salesSummary struct {
	TotalOrders    int
	TotalItems     int
	TotalCustomers int
	GrossRevenue   decimal.Decimal
	TotalDiscounts decimal.Decimal
	NetRevenue     decimal.Decimal
}

func summarizeOrders(orders []models.Order) salesSummary {
	var summary salesSummary
	summary.GrossRevenue = decimal.Zero
	summary.TotalDiscounts = decimal.Zero
	customerSet := make(map[uint]bool)
	for _, order := range orders {
		summary.TotalOrders++
		summary.GrossRevenue = summary.GrossRevenue.Add(order.TotalBeforeDiscount)
		summary.TotalDiscounts = summary.TotalDiscounts.Add(order.DiscountAmount)
		customerSet[order.UserID] = true
		for _, item := range order.OrderItems {
			summary.TotalItems += item.Qty
		}
	}
	summary.TotalCustomers = len(customerSet)
	summary.NetRevenue = utils.Round2(summary.GrossRevenue.Sub(summary.TotalDiscounts))
	return summary
}

func fetchReportOrders(startDate, endDate time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := config.DB.Where("created_at >= ? AND created_at <= ? AND status = ?", startDate, endDate, models.OrderStatusPaid).
		Preload("User").
		Preload("OrderItems.Game").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// AdminGetSalesReport returns sales aggregates and order rows for a period.
func AdminGetSalesReport(c *gin.Context) {
	utils.LogInfo("AdminGetSalesReport called")

	period := c.DefaultQuery("period", "day")
	startDate, endDate, ok := reportWindow(period)
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	orders, err := fetchReportOrders(startDate, endDate)
	if err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	utils.LogDebug("Retrieved %d orders for sales report", len(orders))

	summary := summarizeOrders(orders)
	rows := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Qty
		}
		rows = append(rows, gin.H{
			"order_id": order.ID,
			"user_id":  order.UserID,
			"username": order.User.Username,
			"date":     order.CreatedAt,
			"items":    itemCount,
			"gross":    utils.Money(order.TotalBeforeDiscount),
			"discount": utils.Money(order.DiscountAmount),
			"net":      utils.Money(order.TotalPaid),
			"status":   order.Status,
		})
	}

	utils.Success(c, "Sales report retrieved successfully", gin.H{
		"period": period,
		"from":   startDate,
		"to":     endDate,
		"summary": gin.H{
			"total_orders":    summary.TotalOrders,
			"total_items":     summary.TotalItems,
			"total_customers": summary.TotalCustomers,
			"gross_revenue":   utils.Money(summary.GrossRevenue),
			"total_discounts": utils.Money(summary.TotalDiscounts),
			"net_revenue":     utils.Money(summary.NetRevenue),
		},
		"orders": rows,
	})
}

// DownloadSalesReportExcel streams the sales report for a period as an
// Excel workbook.
func DownloadSalesReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadSalesReportExcel called")

	period := c.DefaultQuery("period", "day")
	startDate, endDate, ok := reportWindow(period)
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	orders, err := fetchReportOrders(startDate, endDate)
	if err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d orders for Excel report", len(orders))

	summary := summarizeOrders(orders)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	// Header block
	row := sheet.AddRow()
	row.AddCell().SetString("GAMEVAULT - Sales Report")
	row = sheet.AddRow()
	row.AddCell().SetString("Email: support@gamevault.example")
	row = sheet.AddRow()
	row.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	// Table headers
	headers := []string{"Order ID", "User ID", "Username", "Date", "Items", "Gross", "Discount", "Net", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetString(h)
	}

	for _, order := range orders {
		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Qty
		}
		row = sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().SetInt(int(order.UserID))
		row.AddCell().SetString(order.User.Username)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetInt(itemCount)
		row.AddCell().SetString(utils.Money(order.TotalBeforeDiscount))
		row.AddCell().SetString(utils.Money(order.DiscountAmount))
		row.AddCell().SetString(utils.Money(order.TotalPaid))
		row.AddCell().SetString(order.Status)
	}

	// Summary block
	sheet.AddRow()
	row = sheet.AddRow()
	row.AddCell().SetString("Total Orders")
	row.AddCell().SetInt(summary.TotalOrders)
	row = sheet.AddRow()
	row.AddCell().SetString("Total Items")
	row.AddCell().SetInt(summary.TotalItems)
	row = sheet.AddRow()
	row.AddCell().SetString("Total Customers")
	row.AddCell().SetInt(summary.TotalCustomers)
	row = sheet.AddRow()
	row.AddCell().SetString("Gross Revenue")
	row.AddCell().SetString(utils.Money(summary.GrossRevenue))
	row = sheet.AddRow()
	row.AddCell().SetString("Total Discounts")
	row.AddCell().SetString(utils.Money(summary.TotalDiscounts))
	row = sheet.AddRow()
	row.AddCell().SetString("Net Revenue")
	row.AddCell().SetString(utils.Money(summary.NetRevenue))

	filename := fmt.Sprintf("sales-report-%s-%s.xlsx", period, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		return
	}
	utils.LogInfo("Sales report Excel generated for period: %s", period)
}
