// internal/repository/postgres/social_repo.go
package postgres

import (
	"context"

	"auth-service/internal/domain/auth"
)

type SocialRepository struct {
	db *DB
}

func NewSocialRepository(db *DB) *SocialRepository {
	return &SocialRepository{db: db}
}

func (r *SocialRepository) Get(ctx context.Context, socialName, socialID string) (*auth.SocialAccount, error) {
	var a auth.SocialAccount
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, user_id, social_id, social_name
		FROM social_accounts
		WHERE social_name = $1 AND social_id = $2
	`, socialName, socialID).Scan(&a.ID, &a.UserID, &a.SocialID, &a.SocialName)
	if err != nil {
		return nil, mapError(err, "get social account")
	}
	return &a, nil
}

func (r *SocialRepository) Create(ctx context.Context, a *auth.SocialAccount) (*auth.SocialAccount, error) {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO social_accounts (id, user_id, social_id, social_name)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.UserID, a.SocialID, a.SocialName)
	if err != nil {
		return nil, mapError(err, "create social account")
	}
	return a, nil
}
