package session

import (
	"context"
	"testing"
	"time"

	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAccessTTL  = time.Hour
	testRefreshTTL = 30 * 24 * time.Hour
)

type testEnv struct {
	svc   *Service
	codec *jwt.Codec
	mr    *miniredis.Miniredis
	now   time.Time
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{now: time.Unix(1_700_000_000, 0)}
	clock := func() time.Time { return env.now }

	codec, err := jwt.NewCodec(jwt.Config{
		SecretKey:  "test-secret",
		AccessTTL:  testAccessTTL,
		RefreshTTL: testRefreshTTL,
	}, jwt.WithClock(clock))
	require.NoError(t, err)

	mr, client := newTestRedis(t)
	svc := NewService(codec, NewRedisStore(client, codec.SessionTTL()), zap.NewNop())
	svc.now = clock

	env.svc = svc
	env.codec = codec
	env.mr = mr
	return env
}

func TestCreateSessionPairsTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(ctx, "alice@example.com", []jwt.RoleClaim{{Title: "viewer"}})
	require.NoError(t, err)

	access, err := env.codec.Decode(sess.AccessToken, true)
	require.NoError(t, err)
	refresh, err := env.codec.Decode(sess.RefreshToken, true)
	require.NoError(t, err)

	assert.Equal(t, sess.SessionID, access.SessionID)
	assert.Equal(t, sess.SessionID, refresh.SessionID)
	assert.Equal(t, "alice@example.com", access.Login)
	assert.Equal(t, "alice@example.com", refresh.Login)
	assert.False(t, access.HasRefreshClaim())
	assert.True(t, refresh.IsRefresh())
	assert.True(t, access.HasRole("viewer"))

	// one base instant for both tokens
	assert.Equal(t, access.IssuedAt.Unix(), refresh.IssuedAt.Unix())
	assert.Equal(t, testRefreshTTL-testAccessTTL, refresh.ExpiresAt.Sub(access.ExpiresAt.Time))

	key := "session:" + sess.SessionID
	assert.True(t, env.mr.Exists(key))
	assert.Equal(t, testRefreshTTL, env.mr.TTL(key))
}

func TestCreateSessionUsesFreshIDs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)
	second, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestAccessAndRefreshResolveSameLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	fromAccess, err := env.svc.LoginFromAccessToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	fromRefresh, err := env.svc.LoginFromRefreshToken(ctx, sess.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, "alice", fromAccess)
	assert.Equal(t, fromAccess, fromRefresh)
	assert.NoError(t, env.svc.VerifyAccessToken(ctx, sess.AccessToken))
}

func TestWrongKindIsRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	_, err = env.svc.LoginFromRefreshToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrRefreshTokenValidation)
	assert.ErrorIs(t, err, xerrors.ErrToken)

	_, err = env.svc.LoginFromAccessToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, xerrors.ErrAccessTokenValidation)

	err = env.svc.VerifyAccessToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, xerrors.ErrAccessTokenValidation)
}

func TestDeleteSessionIsOneShot(t *testing.T) {
	ctx := context.Background()

	for name, pick := range map[string]func(*Session) string{
		"access":  func(s *Session) string { return s.AccessToken },
		"refresh": func(s *Session) string { return s.RefreshToken },
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			sess, err := env.svc.CreateSession(ctx, "alice", nil)
			require.NoError(t, err)

			payload, err := env.svc.DeleteSession(ctx, pick(sess))
			require.NoError(t, err)
			assert.Equal(t, sess.SessionID, payload.SessionID)
			assert.False(t, env.mr.Exists("session:"+sess.SessionID))

			_, err = env.svc.DeleteSession(ctx, pick(sess))
			assert.ErrorIs(t, err, xerrors.ErrExpiredSession)

			_, err = env.svc.LoginFromRefreshToken(ctx, sess.RefreshToken)
			assert.ErrorIs(t, err, xerrors.ErrExpiredSession)
		})
	}
}

func TestDeleteSessionAcceptsExpiredToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	env.advance(testAccessTTL + time.Second)

	err = env.svc.VerifyAccessToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrTokenValidation)

	_, err = env.svc.DeleteSession(ctx, sess.AccessToken)
	assert.NoError(t, err)
}

func TestExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// exp = now - 1s
	token, err := env.codec.CreateAccessToken(jwt.AccessClaims{Login: "alice", SessionID: "sid"}, env.now.Add(-testAccessTTL-time.Second))
	require.NoError(t, err)

	_, err = env.svc.LoginFromAccessToken(ctx, token)
	assert.ErrorIs(t, err, xerrors.ErrTokenValidation)
}

func TestRefreshRequiresLiveSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	// the store record lapses while the token itself is still inside its lifetime
	env.mr.FastForward(testRefreshTTL + time.Second)

	_, err = env.svc.LoginFromRefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, xerrors.ErrExpiredSession)

	// access resolution does not consult the store
	login, err := env.svc.LoginFromAccessToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", login)

	_, err = env.svc.VerifyLiveAccessToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrExpiredSession)
}

func TestValidateStructuralChecks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	noSession, err := env.codec.CreateAccessToken(jwt.AccessClaims{Login: "alice"}, env.now)
	require.NoError(t, err)
	_, err = env.svc.LoginFromAccessToken(ctx, noSession)
	assert.ErrorIs(t, err, xerrors.ErrTokenMissingSessionID)

	noLogin, err := env.codec.CreateAccessToken(jwt.AccessClaims{SessionID: "sid"}, env.now)
	require.NoError(t, err)
	_, err = env.svc.LoginFromAccessToken(ctx, noLogin)
	assert.ErrorIs(t, err, xerrors.ErrTokenMissingLogin)

	// with every check disabled only the signature matters
	payload, err := env.svc.Validate(ctx, noLogin, ValidateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sid", payload.SessionID)

	// the kind check runs before the session id check
	noSessionRefresh, err := env.codec.CreateRefreshToken(jwt.RefreshClaims{Login: "alice"}, env.now)
	require.NoError(t, err)
	_, err = env.svc.LoginFromAccessToken(ctx, noSessionRefresh)
	assert.ErrorIs(t, err, xerrors.ErrAccessTokenValidation)
}

func TestValidatePropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sess, err := env.svc.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	env.mr.Close()

	_, err = env.svc.LoginFromRefreshToken(ctx, sess.RefreshToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, xerrors.ErrToken)

	_, err = env.svc.CreateSession(ctx, "alice", nil)
	assert.Error(t, err)
}
