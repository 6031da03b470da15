// internal/domain/auth/repository.go
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Lookups return xerrors.ErrNotFound when no row matches and
// xerrors.ErrConflict when a unique constraint is violated.

type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetByLogin matches by email when the login looks like one, then by username.
	GetByLogin(ctx context.Context, login string) (*User, error)
	// GetByCredentials returns a user whose email or username matches.
	GetByCredentials(ctx context.Context, email, username string) (*User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

type RoleRepository interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByTitle(ctx context.Context, title string) (*Role, error)
	Create(ctx context.Context, r *Role) (*Role, error)
	Update(ctx context.Context, r *Role) (*Role, error)
	// Delete removes the role together with its user assignments.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRoleRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Role, error)
	Exists(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	Assign(ctx context.Context, userID, roleID uuid.UUID) error
	Revoke(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
}

type HistoryRepository interface {
	Create(ctx context.Context, h *LoginHistory) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]LoginHistory, error)
}

type SocialRepository interface {
	Get(ctx context.Context, socialName, socialID string) (*SocialAccount, error)
	Create(ctx context.Context, a *SocialAccount) (*SocialAccount, error)
}
