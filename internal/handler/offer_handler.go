package handler

import (
	"net/http"
	"strconv"

	"orderportal/internal/middleware"
	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OfferRequest defines the structure for offer creation requests
type OfferRequest struct {
	StockID         uint     `json:"stock_id"`
	OfferText       string   `json:"offer_text"`
	DiscountPercent float64  `json:"discount_percent"`
	OfferPrice      *float64 `json:"offer_price,omitempty"`
}

// offerRow is one offer listing entry joined to its stock item
type offerRow struct {
	ID              uint     `json:"id"`
	StockID         uint     `json:"stock_id"`
	OfferText       string   `json:"offer_text"`
	DiscountPercent float64  `json:"discount_percent"`
	OfferPrice      *float64 `json:"offer_price"`
	ItemName        string   `json:"item_name"`
	ItemCode        string   `json:"item_code"`
	OriginalPrice   float64  `json:"original_price"`
}

// ListOffers returns the tenant's active offers with pagination
func ListOffers(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	db := database.GetDB()
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	err := db.Table("offers AS o").
		Joins("JOIN stock_items s ON s.id = o.stock_id").
		Where("o.is_active = ? AND o.tenant_id = ?", true, tenantID).
		Count(&total).Error
	if err != nil {
		log.Error("Failed to count offers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve offers"})
	}

	var rows []offerRow
	err = db.Table("offers AS o").
		Select("o.id, o.stock_id, o.offer_text, o.discount_percent, o.offer_price, s.item_name, s.item_code, s.price AS original_price").
		Joins("JOIN stock_items s ON s.id = o.stock_id").
		Where("o.is_active = ? AND o.tenant_id = ?", true, tenantID).
		Order("o.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		log.Error("Failed to list offers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve offers"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"offers":     rows,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// CreateOffer attaches an offer to a stock item, superseding any active one.
// Superseded offers are deactivated, never deleted.
func CreateOffer(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	var req OfferRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid offer request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	db := database.GetDB()
	var count int64
	db.Model(&model.StockItem{}).Where("id = ? AND tenant_id = ?", req.StockID, tenantID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock item not found"})
	}

	if err := db.Model(&model.Offer{}).
		Where("stock_id = ? AND tenant_id = ?", req.StockID, tenantID).
		Update("is_active", false).Error; err != nil {
		log.Error("Failed to supersede offers", zap.Uint("stock_id", req.StockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create offer"})
	}

	offer := model.Offer{
		TenantID:        tenantID,
		StockID:         req.StockID,
		OfferText:       req.OfferText,
		DiscountPercent: req.DiscountPercent,
		OfferPrice:      req.OfferPrice,
		IsActive:        true,
	}
	if err := db.Create(&offer).Error; err != nil {
		log.Error("Failed to create offer", zap.Uint("stock_id", req.StockID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create offer"})
	}

	log.Info("Offer created",
		zap.Uint("offer_id", offer.ID),
		zap.Uint("stock_id", offer.StockID),
		zap.String("offer_text", offer.OfferText))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Offer created successfully"})
}

// DeleteOffer soft-deactivates one offer
func DeleteOffer(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	res := database.GetDB().Model(&model.Offer{}).
		Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).
		Update("is_active", false)
	if res.Error != nil {
		log.Error("Failed to delete offer", zap.String("id", c.Param("id")), zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete offer"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Offer not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
