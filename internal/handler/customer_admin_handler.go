package handler

import (
	"net/http"
	"strconv"

	"orderportal/internal/middleware"
	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CustomerRequest defines the structure for customer creation requests
type CustomerRequest struct {
	ExternalID string `json:"customer_id_external"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
}

// ListCustomers returns the tenant's customers with pagination and search
func ListCustomers(c echo.Context) error {
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

	query := db.Model(&model.Customer{}).Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(phone) LIKE LOWER(?) OR LOWER(external_id) LIKE LOWER(?))",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("Failed to count customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve customers"})
	}

	var customers []model.Customer
	if err := query.Order("name").Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		log.Error("Failed to list customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve customers"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customers":  customers,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// CreateCustomer registers one customer under the tenant
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context missing"})
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid customer request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	db := database.GetDB()
	var count int64
	db.Model(&model.Customer{}).Where("tenant_id = ? AND external_id = ?", tenantID, req.ExternalID).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Customer ID already exists for your company"})
	}

	customer := model.Customer{
		TenantID:   tenantID,
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		UniqueCode: uuid.New().String()[:8],
		IsActive:   true,
	}
	if err := db.Create(&customer).Error; err != nil {
		log.Error("Failed to create customer", zap.String("external_id", req.ExternalID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add customer"})
	}

	log.Info("Customer added",
		zap.Uint("customer_id", customer.ID),
		zap.String("external_id", customer.ExternalID))

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "Customer added successfully",
		"uniqueCode": customer.UniqueCode,
	})
}
