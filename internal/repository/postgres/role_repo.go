// internal/repository/postgres/role_repo.go
package postgres

import (
	"context"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoleRepository struct {
	db *DB
}

func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]auth.Role, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT id, title, description FROM roles ORDER BY title`)
	if err != nil {
		return nil, mapError(err, "list roles")
	}
	return collectRoles(rows)
}

func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.Role, error) {
	return r.getOne(ctx, `SELECT id, title, description FROM roles WHERE id = $1`, id)
}

func (r *RoleRepository) GetByTitle(ctx context.Context, title string) (*auth.Role, error) {
	return r.getOne(ctx, `SELECT id, title, description FROM roles WHERE title = $1`, title)
}

func (r *RoleRepository) Create(ctx context.Context, role *auth.Role) (*auth.Role, error) {
	query := `
		INSERT INTO roles (id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id, title, description
	`
	return r.getOne(ctx, query, role.ID, role.Title, role.Description)
}

func (r *RoleRepository) Update(ctx context.Context, role *auth.Role) (*auth.Role, error) {
	query := `
		UPDATE roles SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, title, description
	`
	return r.getOne(ctx, query, role.Title, role.Description, role.ID)
}

// Delete drops the assignments first so that no user keeps a dangling role.
func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_role_associations WHERE role_id = $1`, id); err != nil {
			return mapError(err, "delete role assignments")
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return mapError(err, "delete role")
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	})
}

func (r *RoleRepository) getOne(ctx context.Context, query string, args ...any) (*auth.Role, error) {
	var role auth.Role
	err := r.db.pool.QueryRow(ctx, query, args...).Scan(&role.ID, &role.Title, &role.Description)
	if err != nil {
		return nil, mapError(err, "get role")
	}
	return &role, nil
}

func collectRoles(rows pgx.Rows) ([]auth.Role, error) {
	defer rows.Close()

	roles := []auth.Role{}
	for rows.Next() {
		var role auth.Role
		if err := rows.Scan(&role.ID, &role.Title, &role.Description); err != nil {
			return nil, mapError(err, "scan role")
		}
		roles = append(roles, role)
	}
	return roles, mapError(rows.Err(), "list roles")
}
