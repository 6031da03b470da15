// internal/repository/postgres/user_role_repo.go
package postgres

import (
	"context"

	"auth-service/internal/domain/auth"

	"github.com/google/uuid"
)

type UserRoleRepository struct {
	db *DB
}

func NewUserRoleRepository(db *DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

func (r *UserRoleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]auth.Role, error) {
	return listRoles(ctx, r.db, userID)
}

func (r *UserRoleRepository) Exists(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_role_associations WHERE user_id = $1 AND role_id = $2
		)
	`, userID, roleID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check role assignment")
	}
	return exists, nil
}

func (r *UserRoleRepository) Assign(ctx context.Context, userID, roleID uuid.UUID) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO user_role_associations (id, user_id, role_id)
		VALUES ($1, $2, $3)
	`, uuid.New(), userID, roleID)
	return mapError(err, "assign role")
}

// Revoke reports whether an assignment was removed.
func (r *UserRoleRepository) Revoke(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM user_role_associations WHERE user_id = $1 AND role_id = $2
	`, userID, roleID)
	if err != nil {
		return false, mapError(err, "revoke role")
	}
	return tag.RowsAffected() > 0, nil
}

func listRoles(ctx context.Context, db *DB, userID uuid.UUID) ([]auth.Role, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT r.id, r.title, r.description
		FROM roles r
		JOIN user_role_associations ura ON ura.role_id = r.id
		WHERE ura.user_id = $1
		ORDER BY r.title
	`, userID)
	if err != nil {
		return nil, mapError(err, "list user roles")
	}
	return collectRoles(rows)
}
