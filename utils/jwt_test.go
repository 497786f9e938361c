package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := GenerateJWT(secret, 42, "a@b.c", "sess-1", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["userId"])
	assert.Equal(t, "sess-1", claims["sid"])

	_, err = ParseJWT([]byte("other"), tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := GenerateJWT(secret, 1, "a@b.c", "s", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(secret, tok)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", h))
	assert.False(t, CheckPasswordHash("wrong", h))
}

func TestInvitationBody(t *testing.T) {
	body := InvitationBody("Biscuit", "editor", "tok123", "https://pup.example")
	assert.Contains(t, body, "Biscuit")
	assert.Contains(t, body, "an editor")
	assert.Contains(t, body, "tok123")
}
