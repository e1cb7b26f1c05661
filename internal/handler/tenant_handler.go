package handler

import (
	"net/http"

	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"
	"orderportal/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TenantRequest defines the structure for vendor provisioning requests
type TenantRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
}

// CreateTenant provisions a new vendor account. Super admin only.
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid tenant creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	db := database.GetDB()

	var count int64
	db.Model(&model.Tenant{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username already taken"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create vendor"})
	}

	createdBy, _ := c.Get("tenant_id").(uint)
	tenant := model.Tenant{
		Username:    req.Username,
		Password:    string(hashed),
		Name:        req.Name,
		CompanyName: req.CompanyName,
		UniqueCode:  uuid.New().String()[:8],
		Role:        model.RoleAdmin,
		IsActive:    true,
		CreatedBy:   &createdBy,
	}

	if err := db.Create(&tenant).Error; err != nil {
		log.Error("Failed to create tenant", zap.String("username", req.Username), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create vendor"})
	}

	log.Info("Vendor account created",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("company_name", tenant.CompanyName))

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Admin \"" + req.Name + "\" for company \"" + req.CompanyName + "\" created successfully",
		"unique_code": tenant.UniqueCode,
	})
}

// ListTenants lists all vendor accounts. Super admin only.
func ListTenants(c echo.Context) error {
	log := logger.FromContext(c)

	var tenants []model.Tenant
	if err := database.GetDB().Order("created_at DESC").Find(&tenants).Error; err != nil {
		log.Error("Failed to list tenants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve vendors"})
	}

	return c.JSON(http.StatusOK, echo.Map{"admins": tenants})
}

// GetTenant returns one vendor account with usage stats. Super admin only.
func GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var tenant model.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
	}

	var stockCount, customerCount, orderCount int64
	var revenue float64
	db.Model(&model.StockItem{}).Where("tenant_id = ? AND is_active = ?", tenant.ID, true).Count(&stockCount)
	db.Model(&model.Customer{}).Where("tenant_id = ? AND is_active = ?", tenant.ID, true).Count(&customerCount)
	db.Model(&model.Order{}).Where("tenant_id = ?", tenant.ID).Count(&orderCount)
	if err := db.Model(&model.Order{}).Where("tenant_id = ?", tenant.ID).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue).Error; err != nil {
		log.Error("Failed to compute revenue", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"admin": tenant,
		"stats": echo.Map{
			"stockCount":    stockCount,
			"customerCount": customerCount,
			"orderCount":    orderCount,
			"revenue":       revenue,
		},
	})
}

// UpdateTenant edits a vendor account's details. Super admin only.
func UpdateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var tenant model.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
	}
	if tenant.Role == model.RoleSuperAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot modify system super admin"})
	}

	tenant.Name = req.Name
	tenant.CompanyName = req.CompanyName
	tenant.Username = req.Username
	if err := db.Save(&tenant).Error; err != nil {
		log.Error("Failed to update tenant", zap.Uint("tenant_id", tenant.ID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username already taken"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Company details updated successfully"})
}

// ToggleTenant flips a vendor account's active flag. Super admin only.
func ToggleTenant(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var tenant model.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
	}
	if tenant.Role == model.RoleSuperAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot deactivate super admin"})
	}

	tenant.IsActive = !tenant.IsActive
	if err := db.Save(&tenant).Error; err != nil {
		log.Error("Failed to toggle tenant", zap.Uint("tenant_id", tenant.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update vendor"})
	}

	message := "Admin deactivated"
	if tenant.IsActive {
		message = "Admin activated"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message})
}

// DeleteTenant removes a vendor account. Super admin only; the super admin
// account itself cannot be deleted.
func DeleteTenant(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var tenant model.Tenant
	if err := db.First(&tenant, c.Param("id")).Error; err == nil && tenant.Role == model.RoleSuperAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot delete super admin"})
	}

	if err := db.Delete(&model.Tenant{}, c.Param("id")).Error; err != nil {
		log.Error("Failed to delete tenant", zap.String("id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete vendor"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// companyStat is one row of the platform-stats company breakdown
type companyStat struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	CompanyName   string  `json:"company_name"`
	UniqueCode    string  `json:"unique_code"`
	IsActive      bool    `json:"is_active"`
	OrderCount    int64   `json:"order_count"`
	Revenue       float64 `json:"revenue"`
	CustomerCount int64   `json:"customer_count"`
}

// PlatformStats returns platform-wide usage figures. Super admin only.
func PlatformStats(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()
	prometheus.RecordOrderOperation("platform_stats")

	var totalAdmins, activeAdmins, totalOrders, totalCustomers, totalStock int64
	var totalRevenue float64
	db.Model(&model.Tenant{}).Where("role = ?", model.RoleAdmin).Count(&totalAdmins)
	db.Model(&model.Tenant{}).Where("role = ? AND is_active = ?", model.RoleAdmin, true).Count(&activeAdmins)
	db.Model(&model.Order{}).Count(&totalOrders)
	db.Model(&model.Customer{}).Where("is_active = ?", true).Count(&totalCustomers)
	db.Model(&model.StockItem{}).Where("is_active = ?", true).Count(&totalStock)
	db.Model(&model.Order{}).Select("COALESCE(SUM(total_amount), 0)").Scan(&totalRevenue)

	var recentOrders []adminOrderRow
	err := db.Table("orders AS o").
		Select("o.*, c.name AS customer_name, c.phone AS customer_phone, c.city AS customer_city, c.external_id AS customer_external_id").
		Joins("JOIN customers c ON c.id = o.customer_id").
		Order("o.created_at DESC").
		Limit(10).
		Scan(&recentOrders).Error
	if err != nil {
		log.Error("Failed to load recent orders", zap.Error(err))
	}

	var companyStats []companyStat
	err = db.Raw(`SELECT t.id, t.name, t.company_name, t.unique_code, t.is_active,
		(SELECT COUNT(*) FROM orders WHERE tenant_id = t.id) AS order_count,
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE tenant_id = t.id) AS revenue,
		(SELECT COUNT(*) FROM customers WHERE tenant_id = t.id AND is_active = true) AS customer_count
		FROM tenants t
		WHERE t.role = ?
		ORDER BY revenue DESC`, model.RoleAdmin).Scan(&companyStats).Error
	if err != nil {
		log.Error("Failed to load company stats", zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats": echo.Map{
			"totalAdmins":    totalAdmins,
			"activeAdmins":   activeAdmins,
			"totalOrders":    totalOrders,
			"totalRevenue":   totalRevenue,
			"totalCustomers": totalCustomers,
			"totalStock":     totalStock,
		},
		"recentOrders": recentOrders,
		"companyStats": companyStats,
	})
}
