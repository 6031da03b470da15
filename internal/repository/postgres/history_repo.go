// internal/repository/postgres/history_repo.go
package postgres

import (
	"context"

	"auth-service/internal/domain/auth"

	"github.com/google/uuid"
)

type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, h *auth.LoginHistory) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO history (id, user_id, auth_date, user_agent, login_type, session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, h.ID, h.UserID, h.AuthDate, h.UserAgent, string(h.LoginType), h.SessionID)
	return mapError(err, "save login history")
}

// ListByUser returns the newest entries first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]auth.LoginHistory, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, user_id, auth_date, user_agent, login_type, session_id
		FROM history
		WHERE user_id = $1
		ORDER BY auth_date DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, mapError(err, "list login history")
	}
	defer rows.Close()

	entries := []auth.LoginHistory{}
	for rows.Next() {
		var h auth.LoginHistory
		var loginType string
		if err := rows.Scan(&h.ID, &h.UserID, &h.AuthDate, &h.UserAgent, &loginType, &h.SessionID); err != nil {
			return nil, mapError(err, "scan login history")
		}
		h.LoginType = auth.LoginType(loginType)
		entries = append(entries, h)
	}
	return entries, mapError(rows.Err(), "list login history")
}
