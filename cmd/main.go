package main

import (
	"orderportal/internal/handler"
	"orderportal/internal/middleware"
	"orderportal/internal/order"
	"orderportal/pkg/config"
	"orderportal/pkg/database"
	"orderportal/pkg/jwtutil"
	"orderportal/pkg/logger"
	"orderportal/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting order portal...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT signing
	jwtutil.Initialize(&cfg.JWT)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database (now includes migrations automatically)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Ensure the bootstrap super admin account exists
	if err := database.SeedSuperAdmin(cfg); err != nil {
		log.Fatal("Failed to seed super admin", zap.Error(err))
	}

	// Wire the order placement service
	repo := order.NewRepository(database.GetDB(), order.Policy{AllowBackorder: cfg.Order.AllowBackorder}, log)
	orderService := order.NewService(repo, log)
	portal := handler.NewPortalHandler(orderService)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(middleware.MetricsMiddleware)

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Admin authentication
	auth := e.Group("/api/auth")
	auth.POST("/login", handler.Login)
	auth.GET("/me", handler.Me, middleware.AuthMiddleware)

	// Super admin: vendor provisioning and platform stats
	admins := e.Group("/api/auth/admins", middleware.AuthMiddleware, middleware.RequireSuperAdmin)
	admins.POST("", handler.CreateTenant)
	admins.GET("", handler.ListTenants)
	admins.GET("/:id", handler.GetTenant)
	admins.PUT("/:id", handler.UpdateTenant)
	admins.PATCH("/:id/toggle", handler.ToggleTenant)
	admins.DELETE("/:id", handler.DeleteTenant)
	e.GET("/api/auth/platform-stats", handler.PlatformStats, middleware.AuthMiddleware, middleware.RequireSuperAdmin)

	// Vendor admin routes - JWT protected
	api := e.Group("/api/admin", middleware.AuthMiddleware, middleware.RequireAdmin)
	api.GET("/dashboard", handler.Dashboard)

	api.GET("/stock", handler.ListStock)
	api.POST("/stock", handler.CreateStock)
	api.PUT("/stock/:id", handler.UpdateStock)
	api.DELETE("/stock/:id", handler.DeleteStock)

	api.GET("/offers", handler.ListOffers)
	api.POST("/offers", handler.CreateOffer)
	api.DELETE("/offers/:id", handler.DeleteOffer)

	api.GET("/customers", handler.ListCustomers)
	api.POST("/customers", handler.CreateCustomer)

	api.GET("/orders", handler.ListOrders)
	api.GET("/orders/:id", handler.GetOrder)
	api.PATCH("/orders/:id/status", handler.UpdateOrderStatus)

	// Customer portal routes - verified by tenant link code plus customer ID
	portalGroup := e.Group("/api/portal")
	portalGroup.POST("/verify", portal.Verify)
	portalGroup.GET("/manufacturers/:uniqueCode", portal.ListCategories)
	portalGroup.GET("/stock/:uniqueCode", portal.ListCatalog)
	portalGroup.POST("/order", portal.PlaceOrder)
	portalGroup.GET("/orders/:uniqueCode/:customerId", portal.OrderHistory)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
