package auth

import (
	"testing"
	"time"

	"github.com/crmpro/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "crmpro-test",
		MaxRefreshCount:        3,
	})
}

func testTokenInput() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "aziz",
		Role:     "seller",
	}
}

func TestJWTGenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := testTokenInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	t.Run("access token carries identity", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, input.TenantID.String(), claims.TenantID)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, "aziz", claims.Username)
		assert.Equal(t, "seller", claims.Role)
		assert.False(t, claims.IsAdmin())
	})

	t.Run("token types are not interchangeable", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)

		_, err = svc.ValidateRefreshToken(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-completely-different-secret",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "crmpro-test",
			MaxRefreshCount:        3,
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.Error(t, err)
	})
}

func TestJWTRefresh(t *testing.T) {
	svc := newTestJWTService()
	input := testTokenInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("refresh issues a new pair", func(t *testing.T) {
		newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "aziz", "seller")
		require.NoError(t, err)
		assert.NotEmpty(t, newPair.AccessToken)

		claims, err := svc.ValidateAccessToken(newPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, "seller", claims.Role)
	})

	t.Run("refresh count is capped", func(t *testing.T) {
		current := pair.RefreshToken
		for i := 0; i < 3; i++ {
			newPair, err := svc.RefreshTokenPair(current, "aziz", "seller")
			require.NoError(t, err)
			current = newPair.RefreshToken
		}

		_, err := svc.RefreshTokenPair(current, "aziz", "seller")
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "crmpro-test",
		MaxRefreshCount:        3,
	})

	pair, err := svc.GenerateTokenPair(testTokenInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
