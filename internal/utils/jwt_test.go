package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	// Role flags are read from the database per request, never baked in.
	assert.NotContains(t, claims, "roles")
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	tok, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, tok.Raw, 96) // 48 random bytes hex-encoded

	h1 := HashRefreshRaw(tok.Raw)
	h2 := HashRefreshRaw(tok.Raw)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, tok.Raw, h1)

	other, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, HashRefreshRaw(other.Raw), h1)
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
