// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAlgorithm  = "HS256"
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

type Config struct {
	SecretKey  string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec signs and decodes access and refresh tokens with a shared HMAC secret.
type Codec struct {
	method     jwt.SigningMethod
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Codec)

// WithClock overrides the time source used when validating expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is empty")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", alg)
	}

	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("jwt token lifetimes must be positive")
	}

	c := &Codec{
		method:     method,
		key:        []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// SessionTTL is the lifetime a session record needs so that it outlives
// both tokens minted for it.
func (c *Codec) SessionTTL() time.Duration {
	return max(c.accessTTL, c.refreshTTL)
}
