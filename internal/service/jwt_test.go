package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	token, err := GenerateJWT(42)
	require.NoError(t, err)

	userID, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWT_InvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	_, err := ParseJWT("not-a-token")
	assert.Error(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	InitJWT()
	token, err := GenerateJWT(7)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	InitJWT()
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
