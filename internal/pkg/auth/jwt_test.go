package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pethealth-commerce/internal/config"
)

func testConfig(secret string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "pethealth-commerce-test"},
		JWT: config.JWTConfig{
			Secret:            secret,
			AccessTokenExpiry: time.Hour,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret-key-with-enough-length"))

	token, err := manager.GenerateAccessToken(42, "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	issuer := NewJWTManager(testConfig("test-secret-key-with-enough-length"))
	validator := NewJWTManager(testConfig("another-secret-key-entirely-here"))

	token, err := issuer.GenerateAccessToken(42, "owner@example.com")
	require.NoError(t, err)

	_, err = validator.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret-key-with-enough-length"))

	_, err := manager.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Bearer "))
}
