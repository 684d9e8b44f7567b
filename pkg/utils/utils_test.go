package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Asha Kirana Store", "asha-kirana-store"},
		{"special characters stripped", "Raju & Sons (Retail)", "raju-sons-retail"},
		{"collapses repeated separators", "Big   Bazaar -- Main", "big-bazaar-main"},
		{"trims leading and trailing dashes", "  Fancy Store  ", "fancy-store"},
		{"already a slug", "corner-shop", "corner-shop"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestGenerateProductCode(t *testing.T) {
	code := GenerateProductCode()
	assert.True(t, strings.HasPrefix(code, "PROD-"))
	assert.Len(t, code, len("PROD-")+8)
	assert.NotEqual(t, code, GenerateProductCode())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
	assert.False(t, CheckPasswordHash("s3cret-pass", "not-a-hash"))
}

func TestJWTAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	userID := uuid.New()
	tenantID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, &tenantID, "owner@example.com", []string{"admin"}, []string{"manage-bills"})
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, tenantID, *claims.TenantID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.Equal(t, []string{"manage-bills"}, claims.Permissions)
}

func TestJWTAccessTokenWithoutTenant(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), nil, "owner@example.com", nil, nil)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), nil, "owner@example.com", nil, nil)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), nil, "owner@example.com", nil, nil)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTRefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	userID := uuid.New()
	token, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
