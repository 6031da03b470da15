// internal/service/auth/social.go
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
)

// ========== Social login ==========

func (s *AuthService) SocialAuthURL(providerName, state string) (string, error) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return "", err
	}
	return provider.AuthURL(state), nil
}

// AuthenticateBySocial completes the provider's code flow and opens a session
// for the linked user, creating and linking the account on first use.
func (s *AuthService) AuthenticateBySocial(ctx context.Context, providerName, code, userAgent string) (*auth.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.AuthenticateBySocial")
	defer span.End()

	provider, err := s.providers.Get(providerName)
	if err != nil {
		return nil, err
	}

	socialUser, err := provider.UserData(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.getOrCreateSocialUser(ctx, provider.Name(), socialUser)
	if err != nil {
		return nil, err
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.saveLoginHistory(ctx, user, userAgent, auth.LoginTypeSocial, sess.SessionID)

	return tokenPair(sess), nil
}

func (s *AuthService) getOrCreateSocialUser(ctx context.Context, providerName string, su *auth.SocialUser) (*auth.User, error) {
	account, err := s.socials.Get(ctx, providerName, su.ID)
	switch {
	case err == nil:
		user, err := s.users.GetByID(ctx, account.UserID)
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUserNotFound
		}
		return user, err
	case !errors.Is(err, xerrors.ErrNotFound):
		return nil, err
	}

	user, err := s.users.GetByLogin(ctx, su.Email)
	if errors.Is(err, xerrors.ErrNotFound) {
		user, err = s.createSocialUser(ctx, providerName, su)
	}
	if err != nil {
		return nil, err
	}

	_, err = s.socials.Create(ctx, &auth.SocialAccount{
		ID:         uuid.New(),
		UserID:     user.ID,
		SocialID:   su.ID,
		SocialName: providerName,
	})
	if err != nil && !errors.Is(err, xerrors.ErrConflict) {
		return nil, fmt.Errorf("failed to link social account: %w", err)
	}

	return user, nil
}

// createSocialUser registers an account with an unusable random password.
// The provider login becomes the username unless it is taken.
func (s *AuthService) createSocialUser(ctx context.Context, providerName string, su *auth.SocialUser) (*auth.User, error) {
	password, err := randomString(32)
	if err != nil {
		return nil, err
	}

	username := su.Login
	if username == "" {
		username, _, _ = strings.Cut(su.Email, "@")
	}
	if err := s.ensureLoginFree(ctx, username); errors.Is(err, xerrors.ErrUserAlreadyExists) {
		username = fmt.Sprintf("%s_%s_%s", username, providerName, shortID(su.ID))
	} else if err != nil {
		return nil, err
	}

	return s.CreateUser(ctx, &auth.RegisterRequest{
		Username: username,
		Email:    su.Email,
		Password: password,
	}, false)
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random string: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
