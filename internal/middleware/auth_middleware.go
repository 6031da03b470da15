// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"strings"

	"auth-service/internal/domain/auth"
	"auth-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxToken       = "token"
	ctxAccessToken = "access_token"
	ctxLogin       = "login"
	ctxUser        = "user"
)

// Authenticator is the part of the auth service the middleware needs.
type Authenticator interface {
	Identify(ctx context.Context, accessToken string) (string, error)
	AuthorizeSuperuser(ctx context.Context, accessToken string) (*auth.User, error)
}

type AuthMiddleware struct {
	authService Authenticator
}

func NewAuthMiddleware(authService Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Bearer only requires a well formed Authorization header. The raw token is
// stored for handlers that accept either token kind.
func (m *AuthMiddleware) Bearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			return
		}
		c.Set(ctxToken, token)
		c.Next()
	}
}

// Auth validates the bearer as an access token and sets the caller's login.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			return
		}

		login, err := m.authService.Identify(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, "invalid or expired token", err)
			return
		}

		c.Set(ctxToken, token)
		c.Set(ctxAccessToken, token)
		c.Set(ctxLogin, login)
		c.Next()
	}
}

// RequireSuperuser MUST be used after Auth() middleware
func (m *AuthMiddleware) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := GetAccessToken(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			return
		}

		user, err := m.authService.AuthorizeSuperuser(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, "superuser privileges required", err)
			return
		}

		c.Set(ctxUser, user)
		c.Next()
	}
}

// SuperuserOnly returns middlewares for superuser-only routes (Auth + RequireSuperuser)
func (m *AuthMiddleware) SuperuserOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireSuperuser(),
	}
}

// ExtractBearerToken accepts exactly "Bearer <token>".
func ExtractBearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
