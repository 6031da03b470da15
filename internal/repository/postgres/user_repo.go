// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, hashed_password, is_superuser, created_at, updated_at`

type UserRepository struct {
	db       *DB
	validate *validator.Validate
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db, validate: validator.New()}
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *auth.User) (*auth.User, error) {
	query := `
		INSERT INTO users (id, username, email, hashed_password, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.pool.QueryRow(ctx, query, u.ID, u.Username, u.Email, u.HashedPassword, u.IsSuperuser))
	if err != nil {
		return nil, mapError(err, "create user")
	}
	created.Roles = []auth.Role{}
	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByLogin tries the email column first when login is an email address,
// then falls back to the username.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*auth.User, error) {
	if r.validate.Var(login, "email") == nil {
		u, err := r.getByEmail(ctx, login)
		if !errors.Is(err, xerrors.ErrNotFound) {
			return u, err
		}
	}
	return r.getByUsername(ctx, login)
}

func (r *UserRepository) GetByCredentials(ctx context.Context, email, username string) (*auth.User, error) {
	u, err := r.getByEmail(ctx, email)
	if !errors.Is(err, xerrors.ErrNotFound) {
		return u, err
	}
	return r.getByUsername(ctx, username)
}

func (r *UserRepository) getByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*auth.User, error) {
	query := `UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	return r.updateOne(ctx, query, username, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) (*auth.User, error) {
	query := `UPDATE users SET hashed_password = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	return r.updateOne(ctx, query, hashedPassword, id)
}

func (r *UserRepository) List(ctx context.Context) ([]auth.User, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, username`)
	if err != nil {
		return nil, mapError(err, "list users")
	}
	defer rows.Close()

	var users []auth.User
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err, "scan user")
		}
		u.Roles = []auth.Role{}
		index[u.ID] = len(users)
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list users")
	}

	roleRows, err := r.db.pool.Query(ctx, `
		SELECT ura.user_id, r.id, r.title, r.description
		FROM user_role_associations ura
		JOIN roles r ON r.id = ura.role_id
		ORDER BY r.title
	`)
	if err != nil {
		return nil, mapError(err, "list user roles")
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID uuid.UUID
		var role auth.Role
		if err := roleRows.Scan(&userID, &role.ID, &role.Title, &role.Description); err != nil {
			return nil, mapError(err, "scan user role")
		}
		if i, ok := index[userID]; ok {
			users[i].Roles = append(users[i].Roles, role)
		}
	}
	return users, mapError(roleRows.Err(), "list user roles")
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*auth.User, error) {
	u, err := scanUser(r.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "get user")
	}
	if u.Roles, err = listRoles(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) updateOne(ctx context.Context, query string, args ...any) (*auth.User, error) {
	u, err := scanUser(r.db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "update user")
	}
	if u.Roles, err = listRoles(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}
