package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", time.Minute)

	token, err := GenerateAccessToken(42, "staff")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	InitJWT("test-secret", time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		InitJWT("other-secret", time.Minute)
		token, err := GenerateAccessToken(1, "admin")
		require.NoError(t, err)

		InitJWT("test-secret", time.Minute)
		_, err = ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		InitJWT("test-secret", -time.Minute)
		token, err := GenerateAccessToken(1, "admin")
		require.NoError(t, err)

		InitJWT("test-secret", time.Minute)
		_, err = ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateAccessToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestAccessTokenRegisteredClaims(t *testing.T) {
	InitJWT("test-secret", time.Minute)

	token, err := GenerateAccessToken(42, "admin")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenIssuer, claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateAccessToken_RequiresIdentity(t *testing.T) {
	InitJWT("test-secret", time.Minute)

	_, err := GenerateAccessToken(0, "staff")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = GenerateAccessToken(5, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_RejectsForeignTokens(t *testing.T) {
	InitJWT("test-secret", time.Minute)
	expires := jwt.NewNumericDate(time.Now().Add(time.Minute))

	t.Run("other issuer", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			UserID:           1,
			Role:             "admin",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: expires},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
			UserID:           1,
			Role:             "admin",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: TokenIssuer, ExpiresAt: expires},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("no expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			UserID:           1,
			Role:             "admin",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: TokenIssuer},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = ValidateAccessToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
	})

	t.Run("no user", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Role:             "admin",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: TokenIssuer, ExpiresAt: expires},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
