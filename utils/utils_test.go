package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	tokenStr, err := GenerateJWT("buyer@sahidam.example.com", "buyer")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := ValidateJWT(tokenStr)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "buyer@sahidam.example.com", claims["email"])
	assert.Equal(t, "buyer", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestRefreshTokenCarriesSessionID(t *testing.T) {
	tokenStr, err := GenerateRefreshToken("supplier@sahidam.example.com", "session-42")
	require.NoError(t, err)

	token, err := ValidateJWT(tokenStr)
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "refresh", claims["type"])
	assert.Equal(t, "session-42", claims["sessionId"])
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestHashAndValidatePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, ValidatePassword(hash, "s3cret-pass"))
	assert.False(t, ValidatePassword(hash, "wrong-pass"))
}
