package jwt

import (
	"testing"
	"time"

	xerrors "auth-service/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{
		SecretKey:  testSecret,
		AccessTTL:  time.Hour,
		RefreshTTL: 30 * 24 * time.Hour,
	}, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return codec
}

func TestNewCodecValidatesConfig(t *testing.T) {
	_, err := NewCodec(Config{AccessTTL: time.Hour, RefreshTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewCodec(Config{SecretKey: "k", Algorithm: "RS256", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewCodec(Config{SecretKey: "k", AccessTTL: 0, RefreshTTL: time.Hour})
	assert.Error(t, err)

	codec, err := NewCodec(Config{SecretKey: "k", Algorithm: "HS512", AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, codec.SessionTTL())
}

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	codec := newTestCodec(t, now)

	desc := "can manage roles"
	token, err := codec.CreateAccessToken(AccessClaims{
		Login:     "alice",
		Roles:     []RoleClaim{{Title: "admin", Description: &desc}},
		SessionID: "sid-1",
	}, now)
	require.NoError(t, err)

	payload, err := codec.Decode(token, true)
	require.NoError(t, err)

	assert.Equal(t, "alice", payload.Login)
	assert.Equal(t, "sid-1", payload.SessionID)
	assert.False(t, payload.HasRefreshClaim())
	assert.True(t, payload.HasRole("admin"))
	assert.Equal(t, now.Add(time.Hour).Unix(), payload.ExpiresAt.Unix())
	assert.NotEmpty(t, payload.ID)
}

func TestRefreshTokenCarriesMarker(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	codec := newTestCodec(t, now)

	token, err := codec.CreateRefreshToken(RefreshClaims{Login: "alice", SessionID: "sid-1"}, now)
	require.NoError(t, err)

	payload, err := codec.Decode(token, true)
	require.NoError(t, err)

	assert.True(t, payload.HasRefreshClaim())
	assert.True(t, payload.IsRefresh())
	assert.Empty(t, payload.Roles)
	assert.Equal(t, now.Add(30*24*time.Hour).Unix(), payload.ExpiresAt.Unix())
}

func TestDecodeExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	codec := newTestCodec(t, now)

	// exp = now - 1s
	base := now.Add(-time.Hour - time.Second)
	token, err := codec.CreateAccessToken(AccessClaims{Login: "alice", SessionID: "sid"}, base)
	require.NoError(t, err)

	_, err = codec.Decode(token, true)
	assert.ErrorIs(t, err, xerrors.ErrTokenValidation)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	payload, err := codec.Decode(token, false)
	require.NoError(t, err)
	assert.Equal(t, "alice", payload.Login)

	// exp = now + 1s
	fresh, err := codec.CreateAccessToken(AccessClaims{Login: "alice", SessionID: "sid"}, now.Add(-time.Hour+time.Second))
	require.NoError(t, err)
	_, err = codec.Decode(fresh, true)
	assert.NoError(t, err)
}

func TestDecodeRejectsForeignTokens(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	codec := newTestCodec(t, now)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewCodec(Config{SecretKey: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour})
		require.NoError(t, err)
		token, err := other.CreateAccessToken(AccessClaims{Login: "alice", SessionID: "sid"}, now)
		require.NoError(t, err)

		_, err = codec.Decode(token, true)
		assert.ErrorIs(t, err, xerrors.ErrTokenValidation)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
			"login": "alice",
			"exp":   now.Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = codec.Decode(token, true)
		assert.ErrorIs(t, err, xerrors.ErrTokenValidation)
	})

	t.Run("missing exp", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"login":      "alice",
			"session_id": "sid",
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = codec.Decode(token, true)
		assert.ErrorIs(t, err, xerrors.ErrTokenValidation)

		_, err = codec.Decode(token, false)
		assert.ErrorIs(t, err, xerrors.ErrTokenValidation)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.Decode("not-a-token", false)
		assert.ErrorIs(t, err, xerrors.ErrToken)
	})
}
