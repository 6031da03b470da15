// internal/pkg/jwt/verifier.go
package jwt

import (
	"fmt"

	xerrors "auth-service/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Decode verifies the signature and returns the claims. With verifyExpiry
// false an expired token is still accepted, but exp must be present either way.
func (c *Codec) Decode(tokenString string, verifyExpiry bool) (*Payload, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if verifyExpiry {
		opts = append(opts, jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	payload := &Payload{}
	token, err := jwt.ParseWithClaims(tokenString, payload, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.key, nil
	}, opts...)
	if err != nil {
		return nil, xerrors.WithCause(xerrors.ErrTokenValidation, err)
	}
	if !token.Valid {
		return nil, xerrors.ErrTokenValidation
	}

	if payload.ExpiresAt == nil {
		return nil, xerrors.WithCause(xerrors.ErrTokenValidation, jwt.ErrTokenRequiredClaimMissing)
	}

	return payload, nil
}
