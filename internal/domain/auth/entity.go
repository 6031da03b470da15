// internal/domain/auth/entity.go
package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can authenticate. Email is the canonical login carried in tokens.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	IsSuperuser    bool      `json:"is_superuser" db:"is_superuser"`
	Roles          []Role    `json:"roles"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Role is a named permission group that can be assigned to users
type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
}

type LoginType string

const (
	LoginTypeCredentials LoginType = "credentials"
	LoginTypeRefresh     LoginType = "refresh"
	LoginTypeSocial      LoginType = "social"
)

// LoginHistory records one successful authentication
type LoginHistory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	AuthDate  time.Time `json:"auth_date" db:"auth_date"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	LoginType LoginType `json:"login_type" db:"login_type"`
	SessionID string    `json:"session_id" db:"session_id"`
}

// SocialAccount links a user to an external identity provider account
type SocialAccount struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	SocialID   string    `json:"social_id" db:"social_id"`
	SocialName string    `json:"social_name" db:"social_name"`
}

// SocialUser is the identity reported by a social provider
type SocialUser struct {
	ID    string
	Login string
	Email string
}
