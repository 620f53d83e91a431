package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.GenerateAdminToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateAdminToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("test-secret")
	ctx := context.Background()

	sign := func(claims CustomClaims, method jwt.SigningMethod, key interface{}) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := func() CustomClaims {
		now := time.Now()
		return CustomClaims{
			Role: RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Subject:   "ops",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongRole := valid()
	wrongRole.Role = "viewer"

	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"

	tests := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   sign(valid(), jwt.SigningMethodHS256, []byte("other-secret")),
		"expired":        sign(expired, jwt.SigningMethodHS256, []byte("test-secret")),
		"wrong role":     sign(wrongRole, jwt.SigningMethodHS256, []byte("test-secret")),
		"missing expiry": sign(noExpiry, jwt.SigningMethodHS256, []byte("test-secret")),
		"wrong issuer":   sign(wrongIssuer, jwt.SigningMethodHS256, []byte("test-secret")),
		"alg none":       sign(valid(), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateAdminToken(ctx, token)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_MissingSecret(t *testing.T) {
	svc := NewTokenService("")

	_, err := svc.GenerateAdminToken("ops", time.Hour)
	assert.ErrorIs(t, err, ErrTokenSecretMissing)

	_, err = svc.ValidateAdminToken(context.Background(), "x")
	assert.ErrorIs(t, err, ErrTokenSecretMissing)
}
