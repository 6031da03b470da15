// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"time"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/pkg/hash"
	"auth-service/internal/pkg/jwt"
	"auth-service/internal/pkg/session"
	"auth-service/internal/service/social"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("auth-service/internal/service/auth")

// SessionNotifier is told when a session ends so that connected clients can be dropped.
type SessionNotifier interface {
	SessionRevoked(login, sessionID, reason string)
}

const (
	RevokeReasonLogout   = "logout"
	RevokeReasonRotation = "refresh"
)

type AuthService struct {
	sessions  *session.Service
	users     auth.UserRepository
	history   auth.HistoryRepository
	socials   auth.SocialRepository
	providers *social.Registry
	hasher    hash.Hasher
	notifier  SessionNotifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService wires the authentication flows. notifier may be nil.
func NewAuthService(
	sessions *session.Service,
	users auth.UserRepository,
	history auth.HistoryRepository,
	socials auth.SocialRepository,
	providers *social.Registry,
	hasher hash.Hasher,
	notifier SessionNotifier,
	logger *zap.Logger,
) *AuthService {
	if providers == nil {
		providers = social.NewRegistry()
	}
	return &AuthService{
		sessions:  sessions,
		users:     users,
		history:   history,
		socials:   socials,
		providers: providers,
		hasher:    hasher,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// ========== Login ==========

// AuthenticateByCredentials checks the password and opens a new session.
func (s *AuthService) AuthenticateByCredentials(ctx context.Context, req *auth.LoginRequest) (*auth.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.AuthenticateByCredentials")
	defer span.End()

	user, err := s.getUser(ctx, req.Login)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(user.HashedPassword, req.Password) {
		return nil, xerrors.ErrWrongPassword
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.saveLoginHistory(ctx, user, req.UserAgent, auth.LoginTypeCredentials, sess.SessionID)

	return tokenPair(sess), nil
}

// AuthenticateByRefreshToken rotates the session behind a refresh token.
// The new session is created first, then the old one is deleted; if the old
// one is already gone the new session is withdrawn again.
func (s *AuthService) AuthenticateByRefreshToken(ctx context.Context, refreshToken, userAgent string) (*auth.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "auth.AuthenticateByRefreshToken")
	defer span.End()

	login, err := s.sessions.LoginFromRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, login)
	if err != nil {
		return nil, err
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	old, err := s.sessions.DeleteSession(ctx, refreshToken)
	if err != nil {
		if rerr := s.sessions.RevokeSession(ctx, sess.SessionID); rerr != nil {
			s.logger.Error("failed to withdraw session after lost rotation",
				zap.String("session_id", sess.SessionID),
				zap.Error(rerr),
			)
		}
		return nil, err
	}
	s.notify(old.Login, old.SessionID, RevokeReasonRotation)

	s.saveLoginHistory(ctx, user, userAgent, auth.LoginTypeRefresh, sess.SessionID)

	return tokenPair(sess), nil
}

// ========== Logout ==========

// Logout ends the session referenced by an access or refresh token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "auth.Logout")
	defer span.End()

	payload, err := s.sessions.DeleteSession(ctx, token)
	if err != nil {
		return err
	}

	s.notify(payload.Login, payload.SessionID, RevokeReasonLogout)
	return nil
}

// ========== Token checks ==========

func (s *AuthService) VerifyAccessToken(ctx context.Context, accessToken string) error {
	return s.sessions.VerifyAccessToken(ctx, accessToken)
}

// Identify returns the login behind an access token.
func (s *AuthService) Identify(ctx context.Context, accessToken string) (string, error) {
	return s.sessions.LoginFromAccessToken(ctx, accessToken)
}

// AuthorizeSuperuser returns the caller if they are a superuser.
func (s *AuthService) AuthorizeSuperuser(ctx context.Context, accessToken string) (*auth.User, error) {
	user, err := s.userFromAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !user.IsSuperuser {
		return nil, xerrors.ErrAuthorization
	}
	return user, nil
}

// ========== Account ==========

func (s *AuthService) ResetUsername(ctx context.Context, req *auth.ResetUsernameRequest) (*auth.User, error) {
	user, err := s.getVerifiedUser(ctx, req.Login, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.ensureLoginFree(ctx, req.NewUsername); err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateUsername(ctx, user.ID, req.NewUsername)
	if errors.Is(err, xerrors.ErrConflict) {
		return nil, xerrors.ErrUserAlreadyExists
	}
	return updated, err
}

func (s *AuthService) ResetPassword(ctx context.Context, req *auth.ResetPasswordRequest) (*auth.User, error) {
	user, err := s.getVerifiedUser(ctx, req.Login, req.Password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, err
	}

	return s.users.UpdatePassword(ctx, user.ID, hashed)
}

// GetHistory pages through the caller's login history, newest first.
func (s *AuthService) GetHistory(ctx context.Context, accessToken string, limit, offset int) ([]auth.LoginHistory, error) {
	user, err := s.userFromAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return s.history.ListByUser(ctx, user.ID, limit, offset)
}

// ========== Helpers ==========

func (s *AuthService) getUser(ctx context.Context, login string) (*auth.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) getVerifiedUser(ctx context.Context, login, password string) (*auth.User, error) {
	user, err := s.getUser(ctx, login)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(user.HashedPassword, password) {
		return nil, xerrors.ErrWrongPassword
	}
	return user, nil
}

func (s *AuthService) userFromAccessToken(ctx context.Context, accessToken string) (*auth.User, error) {
	login, err := s.sessions.LoginFromAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, login)
}

func (s *AuthService) ensureLoginFree(ctx context.Context, login string) error {
	_, err := s.users.GetByLogin(ctx, login)
	switch {
	case err == nil:
		return xerrors.ErrUserAlreadyExists
	case errors.Is(err, xerrors.ErrNotFound):
		return nil
	default:
		return err
	}
}

// createSession opens a session for the user. Tokens carry the email as login.
func (s *AuthService) createSession(ctx context.Context, user *auth.User) (*session.Session, error) {
	roles := make([]jwt.RoleClaim, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, jwt.RoleClaim{Title: r.Title, Description: r.Description})
	}
	return s.sessions.CreateSession(ctx, user.Email, roles)
}

// saveLoginHistory is best effort: a failed write never fails the login.
func (s *AuthService) saveLoginHistory(ctx context.Context, user *auth.User, userAgent string, loginType auth.LoginType, sessionID string) {
	entry := &auth.LoginHistory{
		ID:        uuid.New(),
		UserID:    user.ID,
		AuthDate:  s.now().UTC(),
		UserAgent: userAgent,
		LoginType: loginType,
		SessionID: sessionID,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to save login history",
			zap.String("user_id", user.ID.String()),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

func (s *AuthService) notify(login, sessionID, reason string) {
	if s.notifier == nil {
		return
	}
	s.notifier.SessionRevoked(login, sessionID, reason)
}

func tokenPair(sess *session.Session) *auth.TokenPair {
	return &auth.TokenPair{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}
}
