// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"
	"time"

	"auth-service/internal/middleware"
	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/pkg/response"
	ws "auth-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers cannot set headers on the handshake; the token is the gate.
		return true
	},
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection authenticates the handshake and upgrades it.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token, ok := h.extractToken(c)
	if !ok {
		response.FromError(c, "missing authentication token", xerrors.ErrToken)
		return
	}

	auth, err := h.hub.AuthenticateClient(c.Request.Context(), token)
	if err != nil {
		h.logger.Info("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		response.FromError(c, "authentication failed", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	if !h.hub.Register(client) {
		client.Close()
		return
	}

	h.logger.Info("websocket client connected",
		zap.String("login", auth.Login),
		zap.String("session_id", auth.SessionID),
		zap.Strings("roles", auth.Roles),
	)

	go client.WritePump()
	go client.ReadPump()
}

// extractToken reads the query parameter first, then the Authorization header.
func (h *WebSocketHandler) extractToken(c *gin.Context) (string, bool) {
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return middleware.ExtractBearerToken(c.GetHeader("Authorization"))
}

// GetStats reports connection counts. Mounted behind the superuser guard.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "WebSocket stats", stats)
}
