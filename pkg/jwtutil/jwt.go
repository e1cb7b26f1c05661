package jwtutil

import (
	"time"

	"orderportal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey []byte
	expiration = 24 * time.Hour
)

// Initialize sets the signing key and token lifetime from configuration
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	if cfg.ExpirationTime > 0 {
		expiration = cfg.ExpirationTime
	}
}

// TenantClaims represents the JWT claims for vendor/admin authentication
type TenantClaims struct {
	TenantID    uint   `json:"tenant_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
	UniqueCode  string `json:"unique_code,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token carrying the tenant identity
func GenerateToken(tenantID uint, username, role, companyName, uniqueCode string) (string, error) {
	claims := TenantClaims{
		TenantID:    tenantID,
		Username:    username,
		Role:        role,
		CompanyName: companyName,
		UniqueCode:  uniqueCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*TenantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TenantClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
