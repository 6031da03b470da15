// internal/service/role/role.go
package role

import (
	"context"
	"errors"
	"fmt"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoleService struct {
	roles  auth.RoleRepository
	logger *zap.Logger
}

func NewRoleService(roles auth.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roles:  roles,
		logger: logger,
	}
}

// ========== Role CRUD ==========

func (s *RoleService) List(ctx context.Context) ([]auth.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) Get(ctx context.Context, id uuid.UUID) (*auth.Role, error) {
	r, err := s.roles.GetByID(ctx, id)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrRoleNotFound
	}
	return r, err
}

// Create adds a role. Titles are unique.
func (s *RoleService) Create(ctx context.Context, req *auth.CreateRoleRequest) (*auth.Role, error) {
	if err := s.ensureTitleFree(ctx, req.Title); err != nil {
		return nil, err
	}

	r, err := s.roles.Create(ctx, &auth.Role{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
	})
	if errors.Is(err, xerrors.ErrConflict) {
		return nil, xerrors.ErrRoleAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("role created", zap.String("role_id", r.ID.String()), zap.String("title", r.Title))
	return r, nil
}

// Update applies only the fields set in req.
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req *auth.UpdateRoleRequest) (*auth.Role, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != r.Title {
		if err := s.ensureTitleFree(ctx, *req.Title); err != nil {
			return nil, err
		}
		r.Title = *req.Title
	}
	if req.Description != nil {
		r.Description = req.Description
	}

	updated, err := s.roles.Update(ctx, r)
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return nil, xerrors.ErrRoleNotFound
	case errors.Is(err, xerrors.ErrConflict):
		return nil, xerrors.ErrRoleAlreadyExists
	}
	return updated, err
}

func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.roles.Delete(ctx, id)
	if errors.Is(err, xerrors.ErrNotFound) {
		return xerrors.ErrRoleNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.logger.Info("role deleted", zap.String("role_id", id.String()))
	return nil
}

func (s *RoleService) ensureTitleFree(ctx context.Context, title string) error {
	_, err := s.roles.GetByTitle(ctx, title)
	switch {
	case err == nil:
		return xerrors.ErrRoleAlreadyExists
	case errors.Is(err, xerrors.ErrNotFound):
		return nil
	default:
		return err
	}
}
