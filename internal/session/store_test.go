package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	sess, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 42, sess.UserID)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestMemoryStoreTokensAreUnique(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess, err := store.Create(ctx, 1)
		require.NoError(t, err)
		assert.False(t, seen[sess.Token])
		seen[sess.Token] = true
	}
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	_, err := store.Get(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	sess, err := store.Create(ctx, 1)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	sess, err := store.Create(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.Token))
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, sess.Token))
	assert.NoError(t, store.Delete(ctx, "never-existed"))
}
