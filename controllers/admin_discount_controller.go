package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/models"
	"github.com/gamevault/gamevault/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountCodeRequest represents the create/update request body for a code
type DiscountCodeRequest struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	MaxUses       *int   `json:"max_uses"`
	PerUserLimit  *int   `json:"per_user_limit"`
	Active        *bool  `json:"active"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
}

// deactivateStaleCodes flips codes that are past their end date or have hit
// their global cap to inactive. Runs opportunistically before each admin
// listing so the list reflects reality without a background job.
func deactivateStaleCodes() {
	now := time.Now()
	if err := config.DB.Model(&models.DiscountCode{}).
		Where("active = ? AND ((end_at IS NOT NULL AND end_at < ?) OR (max_uses IS NOT NULL AND used_count >= max_uses))", true, now).
		Update("active", false).Error; err != nil {
		utils.LogError("Failed to deactivate stale discount codes: %v", err)
	}
}

// AdminListDiscountCodes lists all codes with usage counters.
func AdminListDiscountCodes(c *gin.Context) {
	utils.LogInfo("AdminListDiscountCodes called")

	deactivateStaleCodes()

	query := config.DB.Model(&models.DiscountCode{})
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var codes []models.DiscountCode
	if err := query.Order("id DESC").Find(&codes).Error; err != nil {
		utils.LogError("Failed to fetch discount codes: %v", err)
		utils.InternalServerError(c, "Failed to fetch discount codes", nil)
		return
	}

	utils.LogInfo("Retrieved %d discount codes", len(codes))
	utils.Success(c, "Discount codes retrieved successfully", gin.H{"codes": codes})
}

// AdminGetDiscountCode returns one code with its most recent redemptions.
func AdminGetDiscountCode(c *gin.Context) {
	codeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid code ID", nil)
		return
	}

	var dc models.DiscountCode
	if err := config.DB.First(&dc, codeID).Error; err != nil {
		utils.NotFound(c, "Discount code not found")
		return
	}

	var redemptions []models.CodeRedemption
	if err := config.DB.Where("code_id = ?", dc.ID).
		Order("id DESC").Limit(20).Find(&redemptions).Error; err != nil {
		utils.LogError("Failed to fetch redemptions for code %d: %v", dc.ID, err)
		utils.InternalServerError(c, "Failed to fetch discount code", nil)
		return
	}

	utils.Success(c, "Discount code retrieved successfully", gin.H{
		"code":        dc,
		"redemptions": redemptions,
	})
}

// CreateDiscountCode adds a new code. The stored code is uppercased, and a
// duplicate is a conflict, not an overwrite.
func CreateDiscountCode(c *gin.Context) {
	utils.LogInfo("CreateDiscountCode called")

	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create code request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	code := utils.NormalizeCode(req.Code)
	if code == "" {
		utils.BadRequest(c, "Code is required", nil)
		return
	}
	if valid, msg := utils.ValidateDiscountType(req.DiscountType); !valid {
		utils.BadRequest(c, "Invalid discount type", msg)
		return
	}
	value, err := decimal.NewFromString(req.DiscountValue)
	if err != nil || value.LessThanOrEqual(decimal.Zero) {
		utils.BadRequest(c, "Invalid discount value", "Value must be a positive decimal number")
		return
	}
	if req.DiscountType == models.DiscountTypePercent && value.GreaterThan(decimal.NewFromInt(100)) {
		utils.BadRequest(c, "Invalid discount value", "Percent discounts cannot exceed 100")
		return
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		utils.BadRequest(c, "Invalid max_uses", "max_uses must be at least 1")
		return
	}

	dc := models.DiscountCode{
		Code:          code,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: utils.Round2(value),
		MaxUses:       req.MaxUses,
		PerUserLimit:  1,
		Active:        true,
	}
	if req.PerUserLimit != nil && *req.PerUserLimit >= 1 {
		dc.PerUserLimit = *req.PerUserLimit
	}
	if req.Active != nil {
		dc.Active = *req.Active
	}
	if req.StartAt != "" {
		startAt, err := time.Parse(time.RFC3339, req.StartAt)
		if err != nil {
			utils.BadRequest(c, "Invalid start_at", "Expected RFC3339 timestamp")
			return
		}
		dc.StartAt = &startAt
	}
	if req.EndAt != "" {
		endAt, err := time.Parse(time.RFC3339, req.EndAt)
		if err != nil {
			utils.BadRequest(c, "Invalid end_at", "Expected RFC3339 timestamp")
			return
		}
		dc.EndAt = &endAt
	}
	if dc.StartAt != nil && dc.EndAt != nil && dc.EndAt.Before(*dc.StartAt) {
		utils.BadRequest(c, "Invalid window", "end_at must be after start_at")
		return
	}

	var existing models.DiscountCode
	if err := config.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		utils.LogError("Duplicate discount code: %s", code)
		utils.Conflict(c, "Discount code already exists", nil)
		return
	}

	if err := config.DB.Create(&dc).Error; err != nil {
		// A concurrent create can slip past the pre-check; the unique index
		// has the final say.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "Discount code already exists", nil)
			return
		}
		utils.LogError("Failed to create discount code %s: %v", code, err)
		utils.InternalServerError(c, "Failed to create discount code", nil)
		return
	}

	utils.LogInfo("Discount code created: %s", dc.Code)
	utils.Created(c, "Discount code created successfully", gin.H{"code": dc})
}

// UpdateDiscountCode modifies a code's limits, window or active flag. The
// code string itself and used_count are immutable here.
func UpdateDiscountCode(c *gin.Context) {
	codeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid code ID", nil)
		return
	}

	var dc models.DiscountCode
	if err := config.DB.First(&dc, codeID).Error; err != nil {
		utils.NotFound(c, "Discount code not found")
		return
	}

	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.DiscountType != "" {
		if valid, msg := utils.ValidateDiscountType(req.DiscountType); !valid {
			utils.BadRequest(c, "Invalid discount type", msg)
			return
		}
		updates["discount_type"] = req.DiscountType
	}
	if req.DiscountValue != "" {
		value, err := decimal.NewFromString(req.DiscountValue)
		if err != nil || value.LessThanOrEqual(decimal.Zero) {
			utils.BadRequest(c, "Invalid discount value", "Value must be a positive decimal number")
			return
		}
		updates["discount_value"] = utils.Round2(value)
	}
	if req.MaxUses != nil {
		if *req.MaxUses < 1 {
			utils.BadRequest(c, "Invalid max_uses", "max_uses must be at least 1")
			return
		}
		updates["max_uses"] = *req.MaxUses
	}
	if req.PerUserLimit != nil {
		if *req.PerUserLimit < 1 {
			utils.BadRequest(c, "Invalid per_user_limit", "per_user_limit must be at least 1")
			return
		}
		updates["per_user_limit"] = *req.PerUserLimit
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.StartAt != "" {
		startAt, err := time.Parse(time.RFC3339, req.StartAt)
		if err != nil {
			utils.BadRequest(c, "Invalid start_at", "Expected RFC3339 timestamp")
			return
		}
		updates["start_at"] = startAt
	}
	if req.EndAt != "" {
		endAt, err := time.Parse(time.RFC3339, req.EndAt)
		if err != nil {
			utils.BadRequest(c, "Invalid end_at", "Expected RFC3339 timestamp")
			return
		}
		updates["end_at"] = endAt
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&dc).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update discount code %d: %v", codeID, err)
		utils.InternalServerError(c, "Failed to update discount code", nil)
		return
	}

	utils.LogInfo("Discount code updated: %s", dc.Code)
	utils.Success(c, "Discount code updated successfully", gin.H{"code": dc})
}

// DeleteDiscountCode removes a code that was never redeemed, cascading any
// stray redemption rows in the same transaction. A code with redemptions is
// immutable history and can only be deactivated.
func DeleteDiscountCode(c *gin.Context) {
	codeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid code ID", nil)
		return
	}

	var dc models.DiscountCode
	if err := config.DB.First(&dc, codeID).Error; err != nil {
		utils.NotFound(c, "Discount code not found")
		return
	}

	if dc.UsedCount > 0 {
		utils.LogError("Attempt to delete redeemed discount code %s", dc.Code)
		utils.Conflict(c, "Code has been redeemed and cannot be deleted", gin.H{"used_count": dc.UsedCount})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code_id = ?", dc.ID).Delete(&models.CodeRedemption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dc).Error
	})
	if err != nil {
		utils.LogError("Failed to delete discount code %d: %v", codeID, err)
		utils.InternalServerError(c, "Failed to delete discount code", nil)
		return
	}

	utils.LogInfo("Discount code deleted: %s", dc.Code)
	utils.Success(c, "Discount code deleted successfully", nil)
}
