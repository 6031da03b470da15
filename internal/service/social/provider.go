// internal/service/social/provider.go
package social

import (
	"context"
	"sort"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"
)

// Provider is an external identity provider using the OAuth authorization code flow.
type Provider interface {
	Name() string
	AuthURL(state string) string
	UserData(ctx context.Context, code string) (*auth.SocialUser, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, xerrors.ErrProviderNotFound
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
