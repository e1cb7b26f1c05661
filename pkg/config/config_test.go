package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "orderportal_db", cfg.DB.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpirationTime)
	assert.True(t, cfg.Order.AllowBackorder)
	assert.Equal(t, "superadmin", cfg.Seed.SuperAdminUsername)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ORDER_ALLOW_BACKORDER", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("JWT_EXPIRATION", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Order.AllowBackorder)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpirationTime)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("ORDER_ALLOW_BACKORDER", "sometimes")
	t.Setenv("JWT_EXPIRATION", "tomorrow")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.DB.MaxOpenConns)
	assert.True(t, cfg.Order.AllowBackorder)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpirationTime)
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db.local", Port: "5433", User: "app",
		Password: "secret", Name: "orders", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.local port=5433 user=app password=secret dbname=orders sslmode=require",
		db.GetDSN())
}
