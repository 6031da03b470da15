// internal/app/router.go
package app

import (
	"net/http"

	authHandler "auth-service/internal/handlers/auth"
	roleHandler "auth-service/internal/handlers/role"
	userHandler "auth-service/internal/handlers/user"
	wsHandler "auth-service/internal/handlers/websocket"
	"auth-service/internal/metrics"
	"auth-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	RoleHandler    *roleHandler.RoleHandler
	UserHandler    *userHandler.UserHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Health         gin.HandlerFunc
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	r.Use(
		middleware.MetricsMiddleware(h.Metrics),
		middleware.LoggingMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	api := r.Group("/api/v1")

	// ==================== Health & Metrics ====================
	api.GET("/health", h.Health)
	api.GET("/metrics", gin.WrapH(h.MetricsHandler))

	// ==================== WebSocket ====================
	api.GET("/ws", h.WSHandler.HandleConnection)
	api.GET("/ws/stats", append(h.AuthMiddleware.SuperuserOnly(), h.WSHandler.GetStats)...)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/reset/username", h.AuthHandler.ResetUsername)
		authPublic.POST("/reset/password", h.AuthHandler.ResetPassword)
		authPublic.GET("/social/:provider/url", h.AuthHandler.SocialURL)
		authPublic.GET("/social/:provider/callback", h.AuthHandler.SocialCallback)
	}

	// ==================== Bearer Routes ====================
	// Either token kind is accepted here; the service checks kind and expiry.
	authBearer := api.Group("/auth")
	authBearer.Use(h.AuthMiddleware.Bearer())
	{
		authBearer.POST("/refresh", h.AuthHandler.Refresh)
		authBearer.POST("/logout", h.AuthHandler.Logout)
		authBearer.POST("/verify/access_token", h.AuthHandler.VerifyAccessToken)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/history", h.AuthHandler.History)
	}

	// ==================== Roles (superuser) ====================
	roles := api.Group("/roles")
	roles.Use(h.AuthMiddleware.SuperuserOnly()...)
	{
		roles.GET("", h.RoleHandler.List)
		roles.POST("", h.RoleHandler.Create)
		roles.GET("/:role_id", h.RoleHandler.Get)
		roles.PATCH("/:role_id", h.RoleHandler.Update)
		roles.DELETE("/:role_id", h.RoleHandler.Delete)
	}

	// ==================== User Roles (superuser) ====================
	users := api.Group("/users")
	users.Use(h.AuthMiddleware.SuperuserOnly()...)
	{
		users.GET("/:user_id/roles", h.UserHandler.ListRoles)
		users.POST("/:user_id/roles/:role_id", h.UserHandler.AssignRole)
		users.DELETE("/:user_id/roles/:role_id", h.UserHandler.RevokeRole)
	}
}
