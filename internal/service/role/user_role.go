// internal/service/role/user_role.go
package role

import (
	"context"
	"errors"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRoleService manages role assignments. Changes show up in access
// tokens issued after the change.
type UserRoleService struct {
	users     auth.UserRepository
	roles     auth.RoleRepository
	userRoles auth.UserRoleRepository
	logger    *zap.Logger
}

func NewUserRoleService(
	users auth.UserRepository,
	roles auth.RoleRepository,
	userRoles auth.UserRoleRepository,
	logger *zap.Logger,
) *UserRoleService {
	return &UserRoleService{
		users:     users,
		roles:     roles,
		userRoles: userRoles,
		logger:    logger,
	}
}

func (s *UserRoleService) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]auth.Role, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.userRoles.ListByUser(ctx, userID)
}

func (s *UserRoleService) Assign(ctx context.Context, userID, roleID uuid.UUID) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if err := s.ensureRole(ctx, roleID); err != nil {
		return err
	}

	exists, err := s.userRoles.Exists(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if exists {
		return xerrors.ErrRoleAlreadyAssigned
	}

	if err := s.userRoles.Assign(ctx, userID, roleID); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return xerrors.ErrRoleAlreadyAssigned
		}
		return err
	}

	s.logger.Info("role assigned", zap.String("user_id", userID.String()), zap.String("role_id", roleID.String()))
	return nil
}

func (s *UserRoleService) Revoke(ctx context.Context, userID, roleID uuid.UUID) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if err := s.ensureRole(ctx, roleID); err != nil {
		return err
	}

	removed, err := s.userRoles.Revoke(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if !removed {
		return xerrors.ErrRoleNotAssigned
	}

	s.logger.Info("role revoked", zap.String("user_id", userID.String()), zap.String("role_id", roleID.String()))
	return nil
}

func (s *UserRoleService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return xerrors.Wrap(xerrors.ErrNotFound, "user not found")
	}
	return err
}

func (s *UserRoleService) ensureRole(ctx context.Context, roleID uuid.UUID) error {
	_, err := s.roles.GetByID(ctx, roleID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return xerrors.ErrRoleNotFound
	}
	return err
}
