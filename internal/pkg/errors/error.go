package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrInternal     = errors.New("internal server error")
	ErrRateLimited  = errors.New("too many requests")
)

// Token errors. Every one of them unwraps to ErrToken and then to ErrUnauthorized.
var (
	ErrToken                  = newKind("token error", ErrUnauthorized)
	ErrTokenValidation        = newKind("token validation failed", ErrToken)
	ErrAccessTokenValidation  = newKind("access token expected", ErrTokenValidation)
	ErrRefreshTokenValidation = newKind("refresh token expected", ErrTokenValidation)
	ErrTokenMissingSessionID  = newKind("token does not contain session id", ErrToken)
	ErrTokenMissingLogin      = newKind("token does not contain login", ErrToken)
	ErrExpiredSession         = newKind("session expired", ErrToken)
)

// Authentication and account errors
var (
	ErrUserNotFound      = newKind("user not found", ErrUnauthorized)
	ErrWrongPassword     = newKind("wrong password", ErrUnauthorized)
	ErrAuthorization     = newKind("insufficient privileges", ErrForbidden)
	ErrUserAlreadyExists = newKind("user already exists", ErrConflict)
	ErrProviderNotFound  = newKind("social provider not found", ErrNotFound)
	ErrSocialAuth        = newKind("social authentication failed", ErrUnauthorized)
)

// Role management errors
var (
	ErrRoleNotFound        = newKind("role not found", ErrNotFound)
	ErrRoleAlreadyExists   = newKind("role already exists", ErrConflict)
	ErrRoleAlreadyAssigned = newKind("role already assigned", ErrConflict)
	ErrRoleNotAssigned     = newKind("role not assigned", ErrConflict)
)

// kindError is a sentinel that belongs to a broader class. errors.Is walks
// from the kind to its parent through Unwrap.
type kindError struct {
	msg    string
	parent error
}

func newKind(msg string, parent error) error {
	return &kindError{msg: msg, parent: parent}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }

// WithCause attaches an underlying cause to a sentinel kind. Both remain
// reachable through errors.Is.
func WithCause(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
