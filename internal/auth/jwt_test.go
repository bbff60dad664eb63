package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestJWTService() *JWTService {
	return NewJWTService(testSecret, "grc-test", nil)
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair("user-1", "tenant-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(7200), pair.ExpiresIn)

	claims, err := svc.ValidateToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "access", claims.TokenType)

	refreshClaims, err := svc.ValidateToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	other := NewJWTService("another-secret", "grc-test", nil)
	pair, err := other.GenerateTokenPair("user-1", "tenant-1", "member")
	require.NoError(t, err)

	svc := newTestJWTService()
	_, err = svc.ValidateToken(context.Background(), pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	// 直接签发一个已过期的令牌
	now := time.Now()
	claims := &TokenClaims{
		UserID:    "user-1",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newTestJWTService()
	_, err = svc.ValidateToken(context.Background(), signed)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongAlgorithm(t *testing.T) {
	// alg=none 必须被拒绝
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &TokenClaims{UserID: "user-1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := newTestJWTService()
	_, err = svc.ValidateToken(context.Background(), signed)
	assert.Error(t, err)
}

func TestWithExpiryOverride(t *testing.T) {
	svc := NewJWTService(testSecret, "grc-test", nil).WithExpiry(600, 3600)

	pair, err := svc.GenerateTokenPair("user-1", "tenant-1", "member")
	require.NoError(t, err)
	assert.Equal(t, int64(600), pair.ExpiresIn)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromBearer("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromBearer("bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromBearer("abc"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
	assert.Equal(t, "", ExtractTokenFromBearer("   "))
	assert.Equal(t, "", ExtractTokenFromBearer("Basic abc"))
}
