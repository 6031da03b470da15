// internal/service/auth/registration.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ========== Registration ==========

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.User, error) {
	return s.CreateUser(ctx, req, false)
}

// CreateUser creates an account, failing with ErrUserAlreadyExists when
// either the email or the username is taken.
func (s *AuthService) CreateUser(ctx context.Context, req *auth.RegisterRequest, superuser bool) (*auth.User, error) {
	_, err := s.users.GetByCredentials(ctx, req.Email, req.Username)
	if err == nil {
		return nil, xerrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check credentials: %w", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &auth.User{
		ID:             uuid.New(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		IsSuperuser:    superuser,
	})
	if errors.Is(err, xerrors.ErrConflict) {
		return nil, xerrors.ErrUserAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("superuser", superuser),
	)
	return user, nil
}

// EnsureSuperuserExists creates the bootstrap superuser unless an account
// with that email or username is already present.
func (s *AuthService) EnsureSuperuserExists(ctx context.Context, req *auth.RegisterRequest) error {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return fmt.Errorf("superuser email, username and password must all be set")
	}

	_, err := s.CreateUser(ctx, req, true)
	if errors.Is(err, xerrors.ErrUserAlreadyExists) {
		s.logger.Info("superuser already exists, skipping creation", zap.String("email", req.Email))
		return nil
	}
	return err
}

func (s *AuthService) ListUsers(ctx context.Context) ([]auth.User, error) {
	return s.users.List(ctx)
}
