package handler

import (
	"errors"
	"net/http"
	"strconv"

	"orderportal/internal/model"
	"orderportal/internal/order"
	"orderportal/pkg/database"
	"orderportal/pkg/logger"
	"orderportal/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog category shown when a tenant has any active offer.
const specialOffersCategory = "Special Offers ✨"

// PortalHandler serves the unauthenticated customer portal: identity
// verification, catalog browsing and order placement.
type PortalHandler struct {
	svc *order.Service
}

// NewPortalHandler wires the portal to the order service
func NewPortalHandler(svc *order.Service) *PortalHandler {
	return &PortalHandler{svc: svc}
}

// Verify checks a customer id against a vendor code
func (h *PortalHandler) Verify(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		UniqueCode string `json:"uniqueCode"`
		CustomerID string `json:"customerId"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid verification request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Verifying customer",
		zap.String("customer_id", req.CustomerID),
		zap.String("vendor_code", req.UniqueCode))

	account, err := h.svc.VerifyCustomer(c.Request().Context(), req.UniqueCode, req.CustomerID)
	if err != nil {
		if errors.Is(err, order.ErrAuthenticationFailed) {
			log.Warn("Customer verification failed",
				zap.String("customer_id", req.CustomerID),
				zap.String("vendor_code", req.UniqueCode))
			prometheus.RecordAuthError("customer_not_found")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid Customer ID. Please check and try again."})
		}
		log.Error("Customer verification error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Verification failed"})
	}

	customer := account.Customer
	log.Info("Customer verified",
		zap.String("name", customer.Name),
		zap.Uint("customer_id", customer.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"customer": echo.Map{
			"id":           customer.ID,
			"name":         customer.Name,
			"phone":        customer.Phone,
			"address":      customer.Address,
			"city":         customer.City,
			"external_id":  customer.ExternalID,
			"tenant_id":    customer.TenantID,
			"company_name": account.CompanyName,
		},
	})
}

// ListCategories returns the catalog categories of a vendor, with a
// synthetic special-offers entry when any active offer exists
func (h *PortalHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()
	code := c.Param("uniqueCode")

	var tenant model.Tenant
	if err := db.Where("unique_code = ? AND is_active = ?", code, true).First(&tenant).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Vendor not found"})
	}

	var names []string
	err := db.Raw(`SELECT DISTINCT COALESCE(NULLIF(category, ''), 'General') AS name
		FROM stock_items
		WHERE tenant_id = ? AND is_active = ? AND quantity > 0
		ORDER BY name ASC`, tenant.ID, true).Scan(&names).Error
	if err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	var offerCount int64
	db.Model(&model.Offer{}).Where("tenant_id = ? AND is_active = ?", tenant.ID, true).Count(&offerCount)

	categories := []string{"General"}
	if offerCount > 0 {
		categories = append(categories, specialOffersCategory)
	}
	for _, n := range names {
		if n != "General" {
			categories = append(categories, n)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"manufacturers": categories})
}

// catalogRow is one catalog listing entry with its active offer flattened in
type catalogRow struct {
	ID              uint     `json:"id"`
	ItemCode        string   `json:"item_code"`
	ItemName        string   `json:"item_name"`
	Category        string   `json:"category"`
	Unit            string   `json:"unit"`
	Quantity        int      `json:"quantity"`
	Price           float64  `json:"price"`
	HasOffer        int      `json:"has_offer"`
	OfferText       *string  `json:"offer_text"`
	DiscountPercent *float64 `json:"discount_percent"`
	OfferPrice      *float64 `json:"offer_price"`
}

// ListCatalog returns the vendor's catalog with pagination, search and
// category filtering. Without a search term only in-stock items are shown.
func (h *PortalHandler) ListCatalog(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()
	code := c.Param("uniqueCode")

	var tenant model.Tenant
	if err := db.Where("unique_code = ? AND is_active = ?", code, true).First(&tenant).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Company portal not found or invalid link."})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	search := c.QueryParam("search")
	category := c.QueryParam("manufacturer")

	base := func() *gorm.DB {
		q := db.Table("stock_items AS s").
			Joins("LEFT JOIN offers o ON o.stock_id = s.id AND o.is_active = true").
			Where("s.tenant_id = ? AND s.is_active = ?", tenant.ID, true)
		if search != "" {
			pattern := "%" + search + "%"
			q = q.Where("(LOWER(s.item_name) LIKE LOWER(?) OR LOWER(s.item_code) LIKE LOWER(?) OR LOWER(COALESCE(NULLIF(s.category, ''), 'General')) LIKE LOWER(?))",
				pattern, pattern, pattern)
		} else {
			// Default view only shows in-stock items
			q = q.Where("s.quantity > 0")
		}
		switch category {
		case "", "General":
			if category == "General" {
				q = q.Where("(s.category IS NULL OR s.category = '')")
			}
		case specialOffersCategory:
			q = q.Where("o.id IS NOT NULL")
		default:
			q = q.Where("s.category = ?", category)
		}
		return q
	}

	var total int64
	if err := base().Distinct("s.id").Count(&total).Error; err != nil {
		log.Error("Failed to count catalog", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stock"})
	}

	var rows []catalogRow
	err := base().
		Select(`s.id, s.item_code, s.item_name, s.category, s.unit, s.quantity, s.price,
			CASE WHEN o.id IS NOT NULL THEN 1 ELSE 0 END AS has_offer,
			o.offer_text, o.discount_percent, o.offer_price`).
		Order("has_offer DESC, s.item_name ASC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		log.Error("Failed to list catalog", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stock"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stock":        rows,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"totalPages":   (total + int64(limit) - 1) / int64(limit),
		"company_name": tenant.CompanyName,
	})
}

// placeOrderRequest is the wire payload for order placement
type placeOrderRequest struct {
	UniqueCode string           `json:"uniqueCode"`
	CustomerID string           `json:"customerId"`
	Items      []order.CartLine `json:"items"`
	Notes      string           `json:"notes"`
}

// PlaceOrder runs the order-placement pipeline and maps its error taxonomy
// onto HTTP statuses
func (h *PortalHandler) PlaceOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	receipt, err := h.svc.PlaceOrder(c.Request().Context(), order.PlaceOrderRequest{
		TenantCode: req.UniqueCode,
		CustomerID: req.CustomerID,
		Lines:      req.Items,
		Notes:      req.Notes,
	})
	if err != nil {
		return h.orderError(c, err)
	}

	prometheus.OrdersPlacedCounter.Inc()
	prometheus.OrderAmountHistogram.Observe(receipt.TotalAmount)
	if receipt.SuppressedOffers > 0 {
		prometheus.OfferSuppressedCounter.Add(float64(receipt.SuppressedOffers))
	}
	if receipt.BackorderedLines > 0 {
		prometheus.BackorderCounter.Add(float64(receipt.BackorderedLines))
	}

	log.Info("Order placed",
		zap.String("order_number", receipt.OrderNumber),
		zap.Float64("total_amount", receipt.TotalAmount))

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"orderNumber": receipt.OrderNumber,
		"orderId":     receipt.OrderID,
		"totalAmount": receipt.TotalAmount,
	})
}

func (h *PortalHandler) orderError(c echo.Context, err error) error {
	log := logger.FromContext(c)

	var lineErr *order.LineError
	switch {
	case errors.Is(err, order.ErrAuthenticationFailed):
		prometheus.RecordOrderFailure("authentication")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Identity verification failed. Please check your Customer ID."})
	case errors.Is(err, order.ErrEmptyCart):
		prometheus.RecordOrderFailure("empty_cart")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please add at least one item to your order"})
	case errors.As(err, &lineErr):
		log.Warn("Order rejected for invalid line", zap.Uint("stock_id", lineErr.StockID))
		prometheus.RecordOrderFailure("invalid_line")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found."})
	case errors.Is(err, order.ErrNoValidItems):
		prometheus.RecordOrderFailure("no_valid_items")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No valid items in order"})
	case errors.Is(err, order.ErrInsufficientStock):
		prometheus.RecordOrderFailure("insufficient_stock")
		return c.JSON(http.StatusConflict, echo.Map{"error": "Insufficient stock to fulfil the order"})
	default:
		log.Error("Order placement failed", zap.Error(err))
		prometheus.RecordOrderFailure("commit")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to place order. Nothing was saved; please retry."})
	}
}

// orderWithItems pairs an order header with its item snapshots
type orderWithItems struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// OrderHistory returns a customer's past orders with their items
func (h *PortalHandler) OrderHistory(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	account, err := h.svc.VerifyCustomer(c.Request().Context(), c.Param("uniqueCode"), c.Param("customerId"))
	if err != nil {
		if errors.Is(err, order.ErrAuthenticationFailed) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid customer"})
		}
		log.Error("Customer lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}
	customer := account.Customer

	var orders []model.Order
	err = db.Where("customer_id = ? AND tenant_id = ?", customer.ID, customer.TenantID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	result := make([]orderWithItems, 0, len(orders))
	for _, o := range orders {
		entry := orderWithItems{Order: o}
		if err := db.Where("order_id = ?", o.ID).Find(&entry.Items).Error; err != nil {
			log.Error("Failed to load order items", zap.Uint("order_id", o.ID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
		}
		result = append(result, entry)
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": result})
}
