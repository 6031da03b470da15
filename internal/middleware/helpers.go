// internal/middleware/helpers.go
package middleware

import (
	"auth-service/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// GetToken returns the bearer token stored by Bearer() or Auth().
func GetToken(c *gin.Context) (string, bool) {
	return getString(c, ctxToken)
}

func GetAccessToken(c *gin.Context) (string, bool) {
	return getString(c, ctxAccessToken)
}

func GetLogin(c *gin.Context) (string, bool) {
	return getString(c, ctxLogin)
}

// GetUser returns the superuser set by RequireSuperuser.
func GetUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get(ctxUser)
	if !exists {
		return nil, false
	}
	u, ok := v.(*auth.User)
	return u, ok
}

// MustGetToken gets the bearer token from context or panics
func MustGetToken(c *gin.Context) string {
	token, ok := GetToken(c)
	if !ok {
		panic("token not found in context")
	}
	return token
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, ok := GetLogin(c)
	return ok
}
