package handler

import (
	"net/http"

	"orderportal/internal/middleware"
	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const lowStockThreshold = 10

// lowStockRow is one entry of the dashboard low-stock warning list
type lowStockRow struct {
	ID       uint   `json:"id"`
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// Dashboard returns the tenant's at-a-glance figures
func Dashboard(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}
	uniqueCode, _ := c.Get("unique_code").(string)

	db := database.GetDB()
	var totalStock, totalCustomers, totalOrders, pendingOrders, todayOrders int64
	var totalRevenue float64

	db.Model(&model.StockItem{}).Where("tenant_id = ? AND is_active = ?", tenantID, true).Count(&totalStock)
	db.Model(&model.Customer{}).Where("tenant_id = ? AND is_active = ?", tenantID, true).Count(&totalCustomers)
	db.Model(&model.Order{}).Where("tenant_id = ?", tenantID).Count(&totalOrders)
	db.Model(&model.Order{}).Where("tenant_id = ? AND status = ?", tenantID, model.OrderStatusPending).Count(&pendingOrders)
	db.Model(&model.Order{}).Where("tenant_id = ? AND DATE(created_at) = CURRENT_DATE", tenantID).Count(&todayOrders)
	db.Model(&model.Order{}).Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&totalRevenue)

	var recentOrders []adminOrderRow
	err := db.Table("orders AS o").
		Select(`o.id, o.order_number, o.customer_id, o.total_amount, o.status, o.notes, o.created_at,
			c.name AS customer_name, c.phone AS customer_phone, c.city AS customer_city,
			c.external_id AS customer_external_id`).
		Joins("JOIN customers c ON c.id = o.customer_id").
		Where("o.tenant_id = ?", tenantID).
		Order("o.created_at DESC").
		Limit(10).
		Scan(&recentOrders).Error
	if err != nil {
		log.Error("Failed to load recent orders", zap.Error(err))
	}

	var lowStock []lowStockRow
	err = db.Model(&model.StockItem{}).
		Select("id, item_code, item_name, quantity, unit").
		Where("tenant_id = ? AND is_active = ? AND quantity <= ?", tenantID, true, lowStockThreshold).
		Order("quantity ASC").
		Limit(10).
		Scan(&lowStock).Error
	if err != nil {
		log.Error("Failed to load low stock items", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats": echo.Map{
			"totalStock":     totalStock,
			"totalCustomers": totalCustomers,
			"totalOrders":    totalOrders,
			"pendingOrders":  pendingOrders,
			"todayOrders":    todayOrders,
			"totalRevenue":   totalRevenue,
		},
		"recentOrders":  recentOrders,
		"lowStockItems": lowStock,
		"uniqueCode":    uniqueCode,
	})
}
