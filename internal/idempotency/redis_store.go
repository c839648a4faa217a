package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper tracks seen update keys in Redis with a per-key TTL.
type RedisDeduper struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisDeduper creates a Redis-backed deduper.
func NewRedisDeduper(client *redis.Client, log *slog.Logger) *RedisDeduper {
	if log == nil {
		log = slog.Default()
	}

	return &RedisDeduper{
		client: client,
		log:    log,
	}
}

// FirstSeen atomically records the key and reports whether this call
// was the first within the TTL window.
func (d *RedisDeduper) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	first, err := d.client.SetNX(ctx, dedupeKey(key), 1, ttl).Result()
	if err != nil {
		d.log.Error("failed to record update key", slog.String("key", key), slog.Any("error", err))
		return false, err
	}

	return first, nil
}

func dedupeKey(key string) string {
	return fmt.Sprintf("dedupe:update:%s", key)
}
