package controllers

import (
	"errors"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/services"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// couponError maps a coupon evaluation failure to an HTTP response. All
// coupon rejections are client errors with the sentinel message as the
// machine-readable reason.
func couponError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrCouponNotFound):
		utils.NotFound(c, "Coupon not found")
	case errors.Is(err, services.ErrCouponInactive),
		errors.Is(err, services.ErrCouponNotStarted),
		errors.Is(err, services.ErrCouponExpired),
		errors.Is(err, services.ErrCouponExhausted),
		errors.Is(err, services.ErrCouponUserLimit),
		errors.Is(err, services.ErrSubtotalTooLow):
		utils.BadRequest(c, "Coupon cannot be applied", err.Error())
	default:
		return false
	}
	return true
}

// findDiscountCode resolves a code string to its row. A code that does not
// exist returns (nil, nil); only a failed lookup returns an error, so
// infrastructure trouble never masquerades as an unknown code.
func findDiscountCode(db *gorm.DB, code string) (*models.DiscountCode, error) {
	var dc models.DiscountCode
	if err := db.Where("code = ?", utils.NormalizeCode(code)).First(&dc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dc, nil
}

// ValidateCoupon prices the current cart against a code without committing
// anything. The answer is advisory: checkout re-evaluates the code under a
// row lock and may still reject it.
func ValidateCoupon(c *gin.Context) {
	utils.LogInfo("ValidateCoupon called")

	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon validation request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var items []models.CartItem
	if err := config.DB.Preload("Game").Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
		utils.LogError("Failed to fetch cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}
	if len(items) == 0 {
		utils.BadRequest(c, "Cart is empty", nil)
		return
	}

	lines := make([]services.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, services.CartLine{
			ItemID:    item.ID,
			GameID:    item.GameID,
			Title:     item.Game.Title,
			UnitPrice: item.Game.Price,
			Qty:       item.Qty,
		})
	}
	subtotal := services.Subtotal(lines)

	codePtr, err := findDiscountCode(config.DB, req.Code)
	if err != nil {
		utils.LogError("Coupon lookup failed for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to validate coupon", nil)
		return
	}

	var prior int64
	if codePtr != nil {
		if err := config.DB.Model(&models.CodeRedemption{}).
			Where("code_id = ? AND user_id = ?", codePtr.ID, user.ID).
			Count(&prior).Error; err != nil {
			utils.LogError("Failed to count redemptions for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to validate coupon", nil)
			return
		}
	}

	discount, err := services.EvaluateCoupon(codePtr, subtotal, prior, time.Now())
	if err != nil {
		utils.LogError("Coupon %s rejected for user ID: %d: %v", req.Code, user.ID, err)
		if couponError(c, err) {
			return
		}
		utils.InternalServerError(c, "Failed to validate coupon", nil)
		return
	}

	total := services.TotalAfterDiscount(subtotal, discount)
	utils.LogInfo("Coupon %s valid for user ID: %d, discount: %s", codePtr.Code, user.ID, utils.Money(discount))
	utils.Success(c, "Coupon applied successfully", gin.H{
		"code":     codePtr.Code,
		"subtotal": utils.Money(subtotal),
		"discount": utils.Money(discount),
		"total":    utils.Money(total),
	})
}

// Checkout converts selected cart items into a paid order. All checks and
// writes happen in one transaction inside the services package; this handler
// only validates the request shape and maps the outcome.
func Checkout(c *gin.Context) {
	utils.LogInfo("Checkout called")

	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req struct {
		ItemIDs    []uint `json:"item_ids"`
		CouponCode string `json:"coupon_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid checkout request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	// An empty selection means the whole cart.
	if len(req.ItemIDs) == 0 {
		var items []models.CartItem
		if err := config.DB.Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
			utils.LogError("Failed to fetch cart for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to fetch cart", nil)
			return
		}
		for _, item := range items {
			req.ItemIDs = append(req.ItemIDs, item.ID)
		}
	}
	if len(req.ItemIDs) == 0 {
		utils.BadRequest(c, "Cart is empty", nil)
		return
	}

	utils.LogInfo("Processing checkout for user ID: %d with %d items", user.ID, len(req.ItemIDs))
	result, err := services.Checkout(config.DB, services.CheckoutInput{
		UserID:     user.ID,
		ItemIDs:    req.ItemIDs,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		utils.LogError("Checkout failed for user ID: %d: %v", user.ID, err)
		switch {
		case errors.Is(err, services.ErrItemsNotFound):
			utils.NotFound(c, "Cart items not found")
		case errors.Is(err, services.ErrInsufficientBalance):
			utils.PaymentRequired(c, "Insufficient wallet balance")
		default:
			if couponError(c, err) {
				return
			}
			utils.InternalServerError(c, "Checkout failed", nil)
		}
		return
	}

	utils.LogInfo("Checkout completed for user ID: %d, order ID: %d, total: %s",
		user.ID, result.OrderID, utils.Money(result.Total))
	utils.Created(c, "Order placed successfully", gin.H{
		"order": gin.H{
			"id":       result.OrderID,
			"status":   result.Status,
			"total":    utils.Money(result.Total),
			"discount": utils.Money(result.Discount),
		},
		"wallet_balance": utils.Money(result.Balance),
	})
}
