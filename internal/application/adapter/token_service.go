// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// TokenClaims represents the claims contained in an operator JWT.
type TokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// TokenService defines the interface for operator JWT operations.
type TokenService interface {
	// GenerateAdminToken issues a signed admin token for subject.
	GenerateAdminToken(subject string, ttl time.Duration) (string, error)

	// ValidateAdminToken validates a token and returns its claims.
	// Tokens that are expired, badly signed or lack the admin role are rejected.
	ValidateAdminToken(ctx context.Context, token string) (*TokenClaims, error)
}
