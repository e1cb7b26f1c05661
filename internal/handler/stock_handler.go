package handler

import (
	"net/http"
	"strconv"

	"orderportal/internal/middleware"
	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"
	"orderportal/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockRequest defines the structure for stock creation/update requests
type StockRequest struct {
	ItemCode  string  `json:"item_code"`
	ItemName  string  `json:"item_name"`
	Category  string  `json:"category"`
	Unit      string  `json:"unit"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	DistPrice float64 `json:"dist_price"`
	MRP       float64 `json:"mrp"`
}

// stockRow is one admin stock listing entry with its active offer
type stockRow struct {
	ID              uint     `json:"id"`
	ItemCode        string   `json:"item_code"`
	ItemName        string   `json:"item_name"`
	Category        string   `json:"category"`
	Unit            string   `json:"unit"`
	Quantity        int      `json:"quantity"`
	Price           float64  `json:"price"`
	DistPrice       float64  `json:"dist_price"`
	MRP             float64  `json:"mrp"`
	HasOffer        int      `json:"has_offer"`
	OfferText       *string  `json:"offer_text"`
	DiscountPercent *float64 `json:"discount_percent"`
	OfferPrice      *float64 `json:"offer_price"`
}

// ListStock returns the tenant's stock with pagination and search
func ListStock(c echo.Context) error {
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
	search := c.QueryParam("search")

	base := func() *gorm.DB {
		q := db.Table("stock_items AS s").
			Joins("LEFT JOIN offers o ON o.stock_id = s.id AND o.is_active = true").
			Where("s.tenant_id = ? AND s.is_active = ?", tenantID, true)
		if search != "" {
			pattern := "%" + search + "%"
			q = q.Where("(LOWER(s.item_name) LIKE LOWER(?) OR LOWER(s.item_code) LIKE LOWER(?) OR LOWER(COALESCE(NULLIF(s.category, ''), 'General')) LIKE LOWER(?))",
				pattern, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := base().Distinct("s.id").Count(&total).Error; err != nil {
		log.Error("Failed to count stock", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stock"})
	}

	var rows []stockRow
	err := base().
		Select(`s.id, s.item_code, s.item_name, s.category, s.unit, s.quantity, s.price, s.dist_price, s.mrp,
			CASE WHEN o.id IS NOT NULL THEN 1 ELSE 0 END AS has_offer,
			o.offer_text, o.discount_percent, o.offer_price`).
		Order("s.item_name ASC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		log.Error("Failed to list stock", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stock"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stock":      rows,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// CreateStock adds one stock item to the tenant's catalog
func CreateStock(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	var req StockRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid stock request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Unit == "" {
		req.Unit = "Pcs"
	}

	db := database.GetDB()
	var count int64
	db.Model(&model.StockItem{}).Where("tenant_id = ? AND item_code = ?", tenantID, req.ItemCode).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Item code already exists for your company"})
	}

	item := model.StockItem{
		TenantID:  tenantID,
		ItemCode:  req.ItemCode,
		ItemName:  req.ItemName,
		Category:  req.Category,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		Price:     req.Price,
		DistPrice: req.DistPrice,
		MRP:       req.MRP,
		IsActive:  true,
	}
	if err := db.Create(&item).Error; err != nil {
		log.Error("Failed to create stock item", zap.String("item_code", req.ItemCode), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add stock item"})
	}

	prometheus.RecordStockOperation("create")
	prometheus.UpdateStockInventory(item.ItemCode, float64(item.Quantity))
	log.Info("Stock item added",
		zap.Uint("stock_id", item.ID),
		zap.String("item_code", item.ItemCode))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Stock item added successfully"})
}

// UpdateStock edits one stock item
func UpdateStock(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	var req StockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Unit == "" {
		req.Unit = "Pcs"
	}

	db := database.GetDB()
	var item model.StockItem
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&item).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock item not found"})
	}

	item.ItemName = req.ItemName
	item.Category = req.Category
	item.Unit = req.Unit
	item.Quantity = req.Quantity
	item.Price = req.Price
	item.DistPrice = req.DistPrice
	item.MRP = req.MRP
	if err := db.Save(&item).Error; err != nil {
		log.Error("Failed to update stock item", zap.Uint("stock_id", item.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update stock item"})
	}

	prometheus.RecordStockOperation("update")
	prometheus.UpdateStockInventory(item.ItemCode, float64(item.Quantity))

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteStock soft-deletes one stock item
func DeleteStock(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	db := database.GetDB()
	res := db.Model(&model.StockItem{}).
		Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).
		Update("is_active", false)
	if res.Error != nil {
		log.Error("Failed to delete stock item", zap.String("id", c.Param("id")), zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete stock item"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Stock item not found"})
	}

	prometheus.RecordStockOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
