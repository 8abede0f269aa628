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

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, ttl)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreCreateAndGet(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, got.UserID)
	assert.Equal(t, sess.Token, got.Token)
}

func TestRedisStoreUnknownToken(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreKeyTTLMatchesSessionLifetime(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1)
	require.NoError(t, err)

	ttl := mr.TTL(redisKeyPrefix + sess.Token)
	assert.Equal(t, time.Hour, ttl)

	// Redis evicts the key once the TTL lapses.
	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDeleteIsIdempotent(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.Token))
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, sess.Token))
}
