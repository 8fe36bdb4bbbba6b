package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(7, "chef")
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "chef", claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestParseTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	valid, err := tm.GenerateToken(7, "chef")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", time.Hour).ParseToken(valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager("secret", time.Minute)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, err := expired.GenerateToken(7, "chef")
		require.NoError(t, err)
		_, err = tm.ParseToken(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, &CustomClaims{UserID: 7, Role: "admin"})
		raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tm.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user", func(t *testing.T) {
		anonymous, err := tm.GenerateToken(0, "admin")
		require.NoError(t, err)
		_, err = tm.ParseToken(anonymous)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
