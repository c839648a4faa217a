package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisDeduperFirstSeen(t *testing.T) {
	client := setupTestRedis(t)
	deduper := NewRedisDeduper(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	key := GenerateKey(int64(42), 1001)

	first, err := deduper.FirstSeen(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := deduper.FirstSeen(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	other, err := deduper.FirstSeen(ctx, GenerateKey(int64(42), 1002), time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestMemoryDeduperFirstSeen(t *testing.T) {
	deduper := NewMemoryDeduper()
	ctx := context.Background()

	first, err := deduper.FirstSeen(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := deduper.FirstSeen(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestMemoryDeduperExpiry(t *testing.T) {
	deduper := NewMemoryDeduper()
	ctx := context.Background()

	first, err := deduper.FirstSeen(ctx, "k1", time.Millisecond)
	require.NoError(t, err)
	assert.True(t, first)

	time.Sleep(5 * time.Millisecond)

	again, err := deduper.FirstSeen(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)

	deduper.Cleanup()
}

func TestGenerateKeyDeterministic(t *testing.T) {
	assert.Equal(t, GenerateKey(int64(1), 2), GenerateKey(int64(1), 2))
	assert.NotEqual(t, GenerateKey(int64(1), 2), GenerateKey(int64(1), 3))
}
