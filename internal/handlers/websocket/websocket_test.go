package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	wstypes "auth-service/internal/domain/websocket"
	"auth-service/internal/pkg/jwt"
	"auth-service/internal/pkg/session"
	ws "auth-service/internal/websocket"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wsEnv struct {
	server   *httptest.Server
	hub      *ws.Hub
	sessions *session.Service
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	codec, err := jwt.NewCodec(jwt.Config{SecretKey: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
	require.NoError(t, err)
	sessions := session.NewService(codec, session.NewRedisStore(client, codec.SessionTTL()), zap.NewNop())

	hub := ws.NewHub(sessions, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := gin.New()
	h := NewWebSocketHandler(hub, zap.NewNop())
	r.GET("/ws", h.HandleConnection)
	r.GET("/ws/stats", h.GetStats)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &wsEnv{server: srv, hub: hub, sessions: sessions}
}

func (e *wsEnv) url(token string) string {
	return "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?token=" + token
}

func readMessage(t *testing.T, conn *websocket.Conn) wstypes.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg wstypes.WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestConnectAndForceLogout(t *testing.T) {
	env := newWSEnv(t)
	sess, err := env.sessions.CreateSession(context.Background(), "alice@example.com", []jwt.RoleClaim{{Title: "viewer"}})
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(env.url(sess.AccessToken), nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, wstypes.EventTypeConnected, msg.Type)
	assert.Equal(t, 1, env.hub.ClientsFor("alice@example.com"))

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, wstypes.EventTypePong, readMessage(t, conn).Type)

	env.hub.SessionRevoked("alice@example.com", sess.SessionID, "logout")

	msg = readMessage(t, conn)
	assert.Equal(t, wstypes.EventTypeForceLogout, msg.Type)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.Eventually(t, func() bool { return env.hub.TotalClients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestOtherSessionsStayConnected(t *testing.T) {
	env := newWSEnv(t)
	ctx := context.Background()
	first, err := env.sessions.CreateSession(ctx, "alice@example.com", nil)
	require.NoError(t, err)
	second, err := env.sessions.CreateSession(ctx, "alice@example.com", nil)
	require.NoError(t, err)

	connA, _, err := websocket.DefaultDialer.Dial(env.url(first.AccessToken), nil)
	require.NoError(t, err)
	defer connA.Close()
	connB, _, err := websocket.DefaultDialer.Dial(env.url(second.AccessToken), nil)
	require.NoError(t, err)
	defer connB.Close()

	readMessage(t, connA)
	readMessage(t, connB)

	env.hub.SessionRevoked("alice@example.com", first.SessionID, "refresh")
	assert.Equal(t, wstypes.EventTypeSessionRevoked, readMessage(t, connA).Type)

	assert.Eventually(t, func() bool { return env.hub.ClientsFor("alice@example.com") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, connB.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, wstypes.EventTypePong, readMessage(t, connB).Type)
}

func TestHandshakeRejected(t *testing.T) {
	env := newWSEnv(t)
	sess, err := env.sessions.CreateSession(context.Background(), "alice@example.com", nil)
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(env.url(""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(env.url(sess.RefreshToken), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "refresh tokens cannot open a socket")

	require.NoError(t, env.sessions.RevokeSession(context.Background(), sess.SessionID))
	_, resp, err = websocket.DefaultDialer.Dial(env.url(sess.AccessToken), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "revoked sessions cannot open a socket")
}

func TestHeaderToken(t *testing.T) {
	env := newWSEnv(t)
	sess, err := env.sessions.CreateSession(context.Background(), "alice@example.com", nil)
	require.NoError(t, err)

	header := http.Header{"Authorization": []string{"Bearer " + sess.AccessToken}}
	conn, _, err := websocket.DefaultDialer.Dial(env.url(""), header)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, wstypes.EventTypeConnected, readMessage(t, conn).Type)

	resp, err := http.Get(env.server.URL + "/ws/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
