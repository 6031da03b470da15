package auth

import (
	"context"
	"sync"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"
)

type revocation struct {
	login, sessionID, reason string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []revocation
}

func (n *recordingNotifier) SessionRevoked(login, sessionID, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, revocation{login, sessionID, reason})
}

func (n *recordingNotifier) all() []revocation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]revocation(nil), n.events...)
}

type stubProvider struct {
	user *auth.SocialUser
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) AuthURL(state string) string { return "https://stub.example/authorize?state=" + state }

func (p *stubProvider) UserData(_ context.Context, code string) (*auth.SocialUser, error) {
	if code != "ok" {
		return nil, xerrors.ErrSocialAuth
	}
	return p.user, nil
}
