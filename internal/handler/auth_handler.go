package handler

import (
	"net/http"
	"time"

	"orderportal/internal/model"
	"orderportal/pkg/database"
	"orderportal/pkg/jwtutil"
	"orderportal/pkg/logger"
	"orderportal/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a vendor admin or the super admin and issues a JWT
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginAttemptsCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenant model.Tenant
	result := database.GetDB().Where("username = ?", req.Username).First(&tenant)
	if result.Error != nil {
		log.Warn("Login failed, unknown user", zap.String("username", req.Username))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.Password), []byte(req.Password)); err != nil {
		log.Warn("Login failed, bad password", zap.String("username", req.Username))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	if !tenant.IsActive {
		prometheus.RecordAuthError("account_deactivated")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Account is deactivated"})
	}

	token, err := jwtutil.GenerateToken(tenant.ID, tenant.Username, tenant.Role, tenant.CompanyName, tenant.UniqueCode)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("username", tenant.Username),
		zap.Uint("tenant_id", tenant.ID),
		zap.String("role", tenant.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"user": echo.Map{
			"id":           tenant.ID,
			"username":     tenant.Username,
			"name":         tenant.Name,
			"role":         tenant.Role,
			"company_name": tenant.CompanyName,
			"unique_code":  tenant.UniqueCode,
		},
	})
}

// Me returns the authenticated identity from the token claims
func Me(c echo.Context) error {
	tenantID, _ := c.Get("tenant_id").(uint)
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)
	companyName, _ := c.Get("company_name").(string)
	uniqueCode, _ := c.Get("unique_code").(string)

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":           tenantID,
			"username":     username,
			"role":         role,
			"company_name": companyName,
			"unique_code":  uniqueCode,
		},
	})
}
