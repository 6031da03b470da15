// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleClaim is the role summary embedded into access tokens
type RoleClaim struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// AccessClaims are carried by access tokens. They never contain a refresh marker.
type AccessClaims struct {
	Login     string      `json:"login"`
	Roles     []RoleClaim `json:"roles"`
	SessionID string      `json:"session_id"`
	jwt.RegisteredClaims
}

// RefreshClaims are carried by refresh tokens
type RefreshClaims struct {
	Login     string `json:"login"`
	SessionID string `json:"session_id"`
	Refresh   bool   `json:"refresh"`
	jwt.RegisteredClaims
}

// Payload is the decoded claim set of either token kind.
// Refresh is nil when the token carries no refresh claim at all.
type Payload struct {
	Login     string      `json:"login,omitempty"`
	Roles     []RoleClaim `json:"roles,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	Refresh   *bool       `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// HasRefreshClaim reports whether the refresh claim is present, whatever its value.
func (p *Payload) HasRefreshClaim() bool {
	return p.Refresh != nil
}

// IsRefresh reports whether the token is marked as a refresh token.
func (p *Payload) IsRefresh() bool {
	return p.Refresh != nil && *p.Refresh
}

// HasRole checks if the payload carries a role with the given title
func (p *Payload) HasRole(title string) bool {
	for _, r := range p.Roles {
		if r.Title == title {
			return true
		}
	}
	return false
}
