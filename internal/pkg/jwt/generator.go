// internal/pkg/jwt/generator.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// CreateAccessToken signs an access token that expires AccessTTL after base.
func (c *Codec) CreateAccessToken(claims AccessClaims, base time.Time) (string, error) {
	if claims.Roles == nil {
		claims.Roles = []RoleClaim{}
	}
	claims.RegisteredClaims = c.registered(base, c.accessTTL)
	return c.sign(&claims)
}

// CreateRefreshToken signs a refresh token that expires RefreshTTL after base.
// The refresh marker is always set.
func (c *Codec) CreateRefreshToken(claims RefreshClaims, base time.Time) (string, error) {
	claims.Refresh = true
	claims.RegisteredClaims = c.registered(base, c.refreshTTL)
	return c.sign(&claims)
}

func (c *Codec) registered(base time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(base.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(base),
		ID:        ulid.Make().String(),
	}
}

func (c *Codec) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
