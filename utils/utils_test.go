package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 43.36, Round(65.25/150.5*100, 2))
	assert.Equal(t, 33.333, Round(1.0/3.0*100, 3))
	assert.Equal(t, 0.5, Round(0.5, 2))
	assert.Equal(t, 1.0, Round(0.999, 1))
	assert.Equal(t, 0.0, Round(0, 2))
}

func TestValidateJobNo(t *testing.T) {
	assert.NoError(t, ValidateJobNo("J2301"))
	assert.NoError(t, ValidateJobNo("J-2301-A"))
	assert.Error(t, ValidateJobNo(""))
	assert.Error(t, ValidateJobNo("-leading-dash"))
	assert.Error(t, ValidateJobNo("J 2301"))
	assert.Error(t, ValidateJobNo("J23'; DROP TABLE"))
}

func TestValidateCabNum(t *testing.T) {
	assert.NoError(t, ValidateCabNum("C-0001"))
	assert.NoError(t, ValidateCabNum("C/01.2"))
	assert.Error(t, ValidateCabNum(""))
	assert.Error(t, ValidateCabNum("C 0001"))
}

func TestAccessAndRefreshTokensRoundTrip(t *testing.T) {
	access, err := GenerateJWT("user@example.com")
	require.NoError(t, err)

	token, err := ValidateJWT(access)
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, "access", claims["type"])

	refresh, err := GenerateRefreshToken("user@example.com", "sess-1")
	require.NoError(t, err)

	token, err = ValidateJWT(refresh)
	require.NoError(t, err)
	claims = token.Claims.(jwt.MapClaims)
	assert.Equal(t, "refresh", claims["type"])
	assert.Equal(t, "sess-1", claims["sessionId"])
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
