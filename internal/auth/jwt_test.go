package auth

import (
	"testing"

	"serveo-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 42, Name: "mika", Role: models.RoleManager, Currency: "EUR"}

	signed, err := GenerateToken("test-secret", user)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(signed, &JWTCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*JWTCustomClaims)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "mika", claims.Name)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "EUR", claims.Currency)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Name: "alex", Role: models.RoleAdmin, Currency: "USD"}

	signed, err := GenerateToken("right-secret", user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &JWTCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}
