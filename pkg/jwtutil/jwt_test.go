package jwtutil

import (
	"testing"
	"time"

	"orderportal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})

	token, err := GenerateToken(42, "acme", "admin", "Acme Traders", "abc123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.TenantID)
	assert.Equal(t, "acme", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Acme Traders", claims.CompanyName)
	assert.Equal(t, "abc123", claims.UniqueCode)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})

	token, err := GenerateToken(42, "acme", "admin", "", "")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	Initialize(&config.JWTConfig{SigningKey: "another-key", ExpirationTime: time.Hour})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})
	expiration = -time.Minute
	defer func() { expiration = time.Hour }()

	token, err := GenerateToken(42, "acme", "admin", "", "")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}
