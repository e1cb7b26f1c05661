package handler

import (
	"net/http"
	"strconv"
	"time"

	"orderportal/internal/middleware"
	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"
	"orderportal/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// adminOrderRow is one order listing entry joined to its customer
type adminOrderRow struct {
	ID                 uint      `json:"id"`
	OrderNumber        string    `json:"order_number"`
	CustomerID         uint      `json:"customer_id"`
	TotalAmount        float64   `json:"total_amount"`
	Status             string    `json:"status"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	CustomerName       string    `json:"customer_name"`
	CustomerPhone      string    `json:"customer_phone"`
	CustomerCity       string    `json:"customer_city"`
	CustomerExternalID string    `json:"customer_external_id"`
}

// ListOrders returns the tenant's orders with status/search filters
func ListOrders(c echo.Context) error {
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
	status := c.QueryParam("status")

	base := func() *gorm.DB {
		q := db.Table("orders AS o").
			Joins("JOIN customers c ON c.id = o.customer_id").
			Where("o.tenant_id = ?", tenantID)
		if status != "" {
			q = q.Where("o.status = ?", status)
		}
		if search != "" {
			pattern := "%" + search + "%"
			q = q.Where("(LOWER(o.order_number) LIKE LOWER(?) OR LOWER(c.name) LIKE LOWER(?) OR LOWER(c.phone) LIKE LOWER(?) OR LOWER(c.city) LIKE LOWER(?))",
				pattern, pattern, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		log.Error("Failed to count orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	var rows []adminOrderRow
	err := base().
		Select(`o.id, o.order_number, o.customer_id, o.total_amount, o.status, o.notes, o.created_at,
			c.name AS customer_name, c.phone AS customer_phone, c.city AS customer_city,
			c.external_id AS customer_external_id`).
		Order("o.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders":     rows,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// GetOrder returns one order with its customer and item snapshots
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	db := database.GetDB()
	var o model.Order
	if err := db.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&o).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	var customer model.Customer
	if err := db.First(&customer, o.CustomerID).Error; err != nil {
		log.Error("Failed to load order customer", zap.Uint("order_id", o.ID), zap.Error(err))
	}

	var items []model.OrderItem
	if err := db.Where("order_id = ?", o.ID).Find(&items).Error; err != nil {
		log.Error("Failed to load order items", zap.Uint("order_id", o.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve order"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order":    o,
		"customer": customer,
		"items":    items,
	})
}

// UpdateOrderStatus moves an order through its lifecycle
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	switch req.Status {
	case model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusCompleted, model.OrderStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order status"})
	}

	res := database.GetDB().Model(&model.Order{}).
		Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).
		Update("status", req.Status)
	if res.Error != nil {
		log.Error("Failed to update order status", zap.String("id", c.Param("id")), zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update order"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	prometheus.RecordOrderOperation("status_update")
	log.Info("Order status updated",
		zap.String("order_id", c.Param("id")),
		zap.String("status", req.Status))

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
