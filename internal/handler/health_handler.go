package handler

import (
	"net/http"

	"orderportal/pkg/database"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports service and database liveness
func HealthCheck(c echo.Context) error {
	dbStatus := "ok"
	sqlDB, err := database.GetDB().DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, echo.Map{
		"status":   "up",
		"database": dbStatus,
	})
}
