// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"
	"time"

	"auth-service/internal/domain/auth"
	"auth-service/internal/metrics"
	"auth-service/internal/middleware"
	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/pkg/response"
	"auth-service/internal/pkg/session"
	authUsecase "auth-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	authService *authUsecase.AuthService
	rateLimiter *session.RateLimiter
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewAuthHandler(
	authService *authUsecase.AuthService,
	rateLimiter *session.RateLimiter,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rateLimiter: rateLimiter,
		metrics:     m,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register handles user registration (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Info("registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.FromError(c, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", auth.NewUserResponse(user))
}

// ========== Login ==========

// Login handles user login. Attempts are limited per client address and login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.UserAgent = c.GetHeader("User-Agent")

	ctx := c.Request.Context()
	ip := c.ClientIP()

	allowed, remaining, err := h.rateLimiter.CheckLoginAttempt(ctx, ip, req.Login)
	if err != nil {
		response.FromError(c, "login failed", err)
		return
	}
	if !allowed {
		h.metrics.RateLimited.Inc()
		h.logger.Warn("login rate limit exceeded",
			zap.String("login", req.Login),
			zap.String("ip", ip),
		)
		response.FromError(c, "too many login attempts, try again later", xerrors.ErrRateLimited)
		return
	}

	tokens, err := h.authService.AuthenticateByCredentials(ctx, &req)
	h.metrics.RecordAuth(string(auth.LoginTypeCredentials), err)
	if err != nil {
		h.logger.Info("login failed",
			zap.String("login", req.Login),
			zap.String("ip", ip),
			zap.Int64("remaining_attempts", remaining),
			zap.Error(err),
		)
		response.FromError(c, "login failed", err)
		return
	}

	if err := h.rateLimiter.ResetLoginAttempts(ctx, ip, req.Login); err != nil {
		h.logger.Warn("failed to reset login attempts", zap.String("login", req.Login), zap.Error(err))
	}

	response.Success(c, http.StatusOK, "login successful", tokens)
}

// Refresh rotates the session of the bearer refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := middleware.MustGetToken(c)

	tokens, err := h.authService.AuthenticateByRefreshToken(c.Request.Context(), token, c.GetHeader("User-Agent"))
	h.metrics.RecordAuth(string(auth.LoginTypeRefresh), err)
	if err != nil {
		response.FromError(c, "token refresh failed", err)
		return
	}
	h.metrics.SessionsRevoked.WithLabelValues(authUsecase.RevokeReasonRotation).Inc()

	response.Success(c, http.StatusOK, "token refreshed", tokens)
}

// Logout ends the session of the bearer token, expired or not.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.MustGetToken(c)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.FromError(c, "logout failed", err)
		return
	}
	h.metrics.SessionsRevoked.WithLabelValues(authUsecase.RevokeReasonLogout).Inc()

	response.Success(c, http.StatusOK, "logged out successfully", nil)
}

// VerifyAccessToken checks the bearer access token without touching the store.
func (h *AuthHandler) VerifyAccessToken(c *gin.Context) {
	token := middleware.MustGetToken(c)

	if err := h.authService.VerifyAccessToken(c.Request.Context(), token); err != nil {
		response.FromError(c, "invalid access token", err)
		return
	}

	response.Success(c, http.StatusOK, "access token is valid", nil)
}

// ========== Account ==========

func (h *AuthHandler) ResetUsername(c *gin.Context) {
	var req auth.ResetUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	user, err := h.authService.ResetUsername(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to reset username", err)
		return
	}

	response.Success(c, http.StatusOK, "username updated", auth.NewUserResponse(user))
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	user, err := h.authService.ResetPassword(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to reset password", err)
		return
	}

	response.Success(c, http.StatusOK, "password updated", auth.NewUserResponse(user))
}

// History lists the caller's logins, newest first.
func (h *AuthHandler) History(c *gin.Context) {
	var q auth.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, "invalid pagination", err)
		return
	}

	token, _ := middleware.GetAccessToken(c)
	entries, err := h.authService.GetHistory(c.Request.Context(), token, q.Limit, q.Offset)
	if err != nil {
		response.FromError(c, "failed to load login history", err)
		return
	}

	response.Success(c, http.StatusOK, "login history", gin.H{
		"items":  entries,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
}

// ========== Social login ==========

// SocialURL returns the provider's consent URL. The state is echoed back in a cookie.
func (h *AuthHandler) SocialURL(c *gin.Context) {
	state := uuid.NewString()

	url, err := h.authService.SocialAuthURL(c.Param("provider"), state)
	if err != nil {
		response.FromError(c, "unknown provider", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int((10 * time.Minute).Seconds()), "/", "", c.Request.TLS != nil, true)

	response.Success(c, http.StatusOK, "authorization url", gin.H{"url": url, "state": state})
}

// SocialCallback exchanges the provider code for a token pair.
func (h *AuthHandler) SocialCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.FromError(c, "missing authorization code", xerrors.Wrap(xerrors.ErrInvalidInput, "code is required"))
		return
	}

	if expected, err := c.Cookie(stateCookie); err != nil || expected != c.Query("state") {
		response.FromError(c, "social login failed", xerrors.Wrap(xerrors.ErrSocialAuth, "state mismatch"))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	provider := c.Param("provider")
	tokens, err := h.authService.AuthenticateBySocial(c.Request.Context(), provider, code, c.GetHeader("User-Agent"))
	h.metrics.RecordAuth(string(auth.LoginTypeSocial), err)
	if err != nil {
		h.logger.Info("social login failed", zap.String("provider", provider), zap.Error(err))
		response.FromError(c, "social login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", tokens)
}
