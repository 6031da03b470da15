// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "auth-service/internal/domain/websocket"
	"auth-service/internal/pkg/jwt"
	authUsecase "auth-service/internal/service/auth"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// TokenVerifier checks an access token against a live session.
type TokenVerifier interface {
	VerifyLiveAccessToken(ctx context.Context, token string) (*jwt.Payload, error)
}

type revocation struct {
	login     string
	sessionID string
	reason    string
}

type Hub struct {
	// Registered clients by login
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	revoke     chan revocation
	done       chan struct{}
	stopOnce   sync.Once

	verifier    TokenVerifier
	logger      *zap.Logger
	connections prometheus.Gauge
}

type HubOption func(*Hub)

// WithConnectionGauge tracks the number of registered clients.
func WithConnectionGauge(g prometheus.Gauge) HubOption {
	return func(h *Hub) { h.connections = g }
}

func NewHub(verifier TokenVerifier, logger *zap.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		revoke:     make(chan revocation, 256),
		done:       make(chan struct{}),
		verifier:   verifier,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AuthenticateClient accepts only access tokens whose session is still live.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	payload, err := h.verifier.VerifyLiveAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(payload.Roles))
	for _, r := range payload.Roles {
		roles = append(roles, r.Title)
	}

	return &ClientAuth{
		Login:     payload.Login,
		SessionID: payload.SessionID,
		Roles:     roles,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case r := <-h.revoke:
			h.disconnectSession(r)
		}
	}
}

// Register hands a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SessionRevoked tells clients of an ended session and disconnects them.
// It never blocks the caller; events are dropped when the queue is full.
func (h *Hub) SessionRevoked(login, sessionID, reason string) {
	select {
	case h.revoke <- revocation{login: login, sessionID: sessionID, reason: reason}:
	default:
		h.logger.Warn("websocket revocation queue full, dropping event",
			zap.String("login", login),
			zap.String("session_id", sessionID),
		)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.login] == nil {
		h.clients[client.login] = make(map[*Client]bool)
	}
	h.clients[client.login][client] = true
	h.gaugeInc()

	h.logger.Debug("websocket client connected",
		zap.String("login", client.login),
		zap.String("session_id", client.sessionID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, wstypes.ConnectedData{
		Login:     client.login,
		SessionID: client.sessionID,
		Roles:     client.roles,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.login]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	client.Close()
	h.gaugeDec()
	if len(clients) == 0 {
		delete(h.clients, client.login)
	}

	h.logger.Debug("websocket client disconnected",
		zap.String("login", client.login),
		zap.String("session_id", client.sessionID),
		zap.Int("total", h.totalClients()),
	)
}

func (h *Hub) disconnectSession(r revocation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	eventType := wstypes.EventTypeSessionRevoked
	message := "Session has been replaced, reconnect with the new access token"
	if r.reason == authUsecase.RevokeReasonLogout {
		eventType = wstypes.EventTypeForceLogout
		message = "You have been logged out"
	}
	msg := wstypes.NewMessage(eventType, wstypes.SessionEventData{
		SessionID: r.sessionID,
		Reason:    r.reason,
		Message:   message,
	})

	for client := range h.clients[r.login] {
		if client.sessionID != r.sessionID {
			continue
		}
		client.SendMessage(msg)
		h.removeLocked(client)
	}
}

func (h *Hub) ClientsFor(login string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[login])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) gaugeInc() {
	if h.connections != nil {
		h.connections.Inc()
	}
}

func (h *Hub) gaugeDec() {
	if h.connections != nil {
		h.connections.Dec()
	}
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	msg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]string{"reason": "server shutdown"})
	for _, clients := range h.clients {
		for client := range clients {
			client.SendMessage(msg)
			client.Close()
			h.gaugeDec()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
