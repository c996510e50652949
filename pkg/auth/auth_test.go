package auth_test

import (
	"testing"
	"time"

	"paynote/pkg/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := auth.NewJWTManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("0b7a3f52-36e5-4c1f-9a5e-6f3f1f5c2b10", "jean@example.fr", "Jean Dupont")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "0b7a3f52-36e5-4c1f-9a5e-6f3f1f5c2b10", claims.UserID)
	require.Equal(t, "jean@example.fr", claims.Email)
	require.Equal(t, auth.TokenTypeAccess, claims.TokenType)
}

func TestJWTManager_RefreshTokenType(t *testing.T) {
	t.Parallel()

	m := auth.NewJWTManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, auth.TokenTypeRefresh, claims.TokenType)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := auth.NewJWTManager("one", time.Hour, time.Hour).GenerateToken("u", "e", "n")
	require.NoError(t, err)

	_, err = auth.NewJWTManager("two", time.Hour, time.Hour).ValidateToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	t.Parallel()

	m := auth.NewJWTManager("secret", -time.Minute, time.Hour)

	token, err := m.GenerateToken("u", "e", "n")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_FallsBackToSubject(t *testing.T) {
	t.Parallel()

	// shape of a token issued by a hosted identity provider
	external := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "b1d6a0a4-8a4e-4d7b-9d55-3f0b5f0c0e11",
		"email": "freelance@example.fr",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := external.SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("secret", time.Hour, time.Hour).ValidateToken(signed)
	require.NoError(t, err)
	require.Equal(t, "b1d6a0a4-8a4e-4d7b-9d55-3f0b5f0c0e11", claims.UserID)
	require.Equal(t, "freelance@example.fr", claims.Email)
}

func TestPassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	require.True(t, auth.CheckPasswordHash("s3cret!", hash))
	require.False(t, auth.CheckPasswordHash("wrong", hash))
}
