package controllers

import (
	"strconv"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
)

// orderResponse builds the JSON shape shared by the list and detail views.
func orderResponse(order models.Order) gin.H {
	items := make([]gin.H, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, gin.H{
			"game_id":    item.GameID,
			"title":      item.Game.Title,
			"unit_price": utils.Money(item.UnitPrice),
			"qty":        item.Qty,
			"subtotal":   utils.Money(item.Subtotal),
		})
	}
	return gin.H{
		"id":                    order.ID,
		"status":                order.Status,
		"total_before_discount": utils.Money(order.TotalBeforeDiscount),
		"discount_amount":       utils.Money(order.DiscountAmount),
		"total_paid":            utils.Money(order.TotalPaid),
		"created_at":            order.CreatedAt,
		"items":                 items,
	}
}

// GetMyOrders lists the user's orders, newest first.
func GetMyOrders(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("OrderItems").Preload("OrderItems.Game").
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	responses := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, orderResponse(order))
	}

	utils.LogInfo("Retrieved %d orders for user ID: %d", len(orders), user.ID)
	utils.SuccessWithPagination(c, "Orders retrieved successfully", responses, total, page, perPage)
}

// GetOrderDetail returns one of the user's orders with its items.
func GetOrderDetail(c *gin.Context) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").Preload("OrderItems.Game").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Order %d not found for user ID: %d", orderID, user.ID)
		utils.NotFound(c, "Order not found")
		return
	}

	utils.Success(c, "Order retrieved successfully", gin.H{"order": orderResponse(order)})
}
