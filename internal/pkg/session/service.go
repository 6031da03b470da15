// internal/pkg/session/service.go
package session

import (
	"context"
	"time"

	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/pkg/jwt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("auth-service/internal/pkg/session")

// Service mints token pairs, validates tokens against the session store
// and ends sessions. It holds no mutable state.
type Service struct {
	codec  *jwt.Codec
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(codec *jwt.Codec, store Store, logger *zap.Logger) *Service {
	return &Service{
		codec:  codec,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateSession issues an access/refresh pair sharing one fresh session id
// and persists the session before returning.
func (s *Service) CreateSession(ctx context.Context, login string, roles []jwt.RoleClaim) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.CreateSession")
	defer span.End()

	sessionID := uuid.NewString()
	base := s.now()

	accessToken, err := s.codec.CreateAccessToken(jwt.AccessClaims{
		Login:     login,
		Roles:     roles,
		SessionID: sessionID,
	}, base)
	if err != nil {
		return nil, s.fail(span, err)
	}

	refreshToken, err := s.codec.CreateRefreshToken(jwt.RefreshClaims{
		Login:     login,
		SessionID: sessionID,
	}, base)
	if err != nil {
		return nil, s.fail(span, err)
	}

	if err := s.store.Save(ctx, login, sessionID); err != nil {
		return nil, s.fail(span, err)
	}

	span.SetAttributes(attribute.String("session.id", sessionID))
	s.logger.Debug("session created", zap.String("login", login), zap.String("session_id", sessionID))

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

// Validate decodes the token and applies the selected checks. The first
// failing check decides the returned error.
func (s *Service) Validate(ctx context.Context, token string, opts ValidateOptions) (*jwt.Payload, error) {
	payload, err := s.codec.Decode(token, opts.CheckExpired)
	if err != nil {
		return nil, err
	}

	if opts.CheckAccess && payload.HasRefreshClaim() {
		return nil, xerrors.ErrAccessTokenValidation
	}

	if opts.CheckRefresh && !payload.IsRefresh() {
		return nil, xerrors.ErrRefreshTokenValidation
	}

	if opts.CheckSessionID {
		if payload.SessionID == "" {
			return nil, xerrors.ErrTokenMissingSessionID
		}
		if opts.CheckSessionExpired {
			_, found, err := s.store.Get(ctx, payload.SessionID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, xerrors.ErrExpiredSession
			}
		}
	}

	if opts.CheckLogin && payload.Login == "" {
		return nil, xerrors.ErrTokenMissingLogin
	}

	return payload, nil
}

// LoginFromRefreshToken resolves the login of a live session from its refresh token.
func (s *Service) LoginFromRefreshToken(ctx context.Context, token string) (string, error) {
	opts := DefaultValidateOptions()
	opts.CheckRefresh = true
	opts.CheckSessionExpired = true

	payload, err := s.Validate(ctx, token, opts)
	if err != nil {
		return "", err
	}
	return payload.Login, nil
}

// LoginFromAccessToken resolves the login from an access token. Store liveness is not consulted.
func (s *Service) LoginFromAccessToken(ctx context.Context, token string) (string, error) {
	payload, err := s.validateAccess(ctx, token)
	if err != nil {
		return "", err
	}
	return payload.Login, nil
}

func (s *Service) VerifyAccessToken(ctx context.Context, token string) error {
	_, err := s.validateAccess(ctx, token)
	return err
}

// VerifyLiveAccessToken is VerifyAccessToken plus the store liveness check.
func (s *Service) VerifyLiveAccessToken(ctx context.Context, token string) (*jwt.Payload, error) {
	opts := DefaultValidateOptions()
	opts.CheckAccess = true
	opts.CheckSessionExpired = true
	return s.Validate(ctx, token, opts)
}

func (s *Service) validateAccess(ctx context.Context, token string) (*jwt.Payload, error) {
	opts := DefaultValidateOptions()
	opts.CheckAccess = true
	return s.Validate(ctx, token, opts)
}

// DeleteSession ends the session referenced by either token kind. Expired
// tokens are accepted so that a client can always log out, but the session
// must still be live. Deleting an already-ended session is ErrExpiredSession.
func (s *Service) DeleteSession(ctx context.Context, token string) (*jwt.Payload, error) {
	ctx, span := tracer.Start(ctx, "session.DeleteSession")
	defer span.End()

	opts := DefaultValidateOptions()
	opts.CheckExpired = false
	opts.CheckSessionExpired = true

	payload, err := s.Validate(ctx, token, opts)
	if err != nil {
		return nil, s.fail(span, err)
	}

	if err := s.RevokeSession(ctx, payload.SessionID); err != nil {
		return nil, s.fail(span, err)
	}

	span.SetAttributes(attribute.String("session.id", payload.SessionID))
	s.logger.Debug("session deleted", zap.String("login", payload.Login), zap.String("session_id", payload.SessionID))

	return payload, nil
}

// RevokeSession deletes a session by id. It returns ErrExpiredSession when
// there was nothing to delete.
func (s *Service) RevokeSession(ctx context.Context, sessionID string) error {
	deleted, err := s.store.Delete(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return xerrors.ErrExpiredSession
	}
	return nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
