package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, 2*time.Hour)

	require.NoError(t, store.Save(ctx, "alice@example.com", "sid-1"))

	assert.Equal(t, "alice@example.com", mustGet(t, mr, "session:sid-1"))
	assert.Equal(t, 2*time.Hour, mr.TTL("session:sid-1"))

	login, found, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice@example.com", login)

	deleted, err := store.Delete(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, found, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err = store.Delete(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRedisStoreExpiresRecords(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Minute)

	require.NoError(t, store.Save(ctx, "alice", "sid-1"))
	mr.FastForward(time.Minute + time.Second)

	_, found, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Minute)

	require.NoError(t, store.Save(ctx, "alice", "sid-1"))
	mr.FastForward(30 * time.Second)
	require.NoError(t, store.Save(ctx, "bob", "sid-1"))

	login, found, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bob", login)
	assert.Equal(t, time.Minute, mr.TTL("session:sid-1"))
}

func TestRedisStorePropagatesConnectionErrors(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Minute)
	mr.Close()

	_, _, err := store.Get(ctx, "sid-1")
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, "alice", "sid-1"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
