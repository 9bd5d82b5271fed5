package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saludagenda/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "secreto-de-prueba"

	token, err := GenerateToken("u-1", "ana@example.com", "paciente", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "paciente", claims.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.AppConfig.JWTSecret = "secreto-de-prueba"

	token, err := GenerateToken("u-1", "ana@example.com", "paciente", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	config.AppConfig.JWTSecret = "secreto-de-prueba"

	token, err := GenerateToken("u-1", "ana@example.com", "paciente", time.Hour)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "otro-secreto"
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("abc")
	b := HashToken("abc")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashToken("abd"))
}
