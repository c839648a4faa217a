package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	userLockKeyPattern = "user:lock:%d"
	lockTTL            = 5 * time.Second
)

// Locker provides per-user mutual exclusion for the read-modify-write
// cycle of one inbound event. Events for different users never contend.
type Locker interface {
	// Lock acquires the lock for userID and returns its release
	// function, or ErrSessionLocked when another event holds it.
	Lock(ctx context.Context, userID int64) (func(), error)
}

// RedisLocker implements Locker with SetNX so the guarantee holds
// across bot instances sharing one Redis.
type RedisLocker struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisLocker creates a distributed per-user locker.
func NewRedisLocker(client *redis.Client, log *slog.Logger) *RedisLocker {
	if log == nil {
		log = slog.Default()
	}

	return &RedisLocker{
		client: client,
		log:    log,
	}
}

// Lock acquires the per-user lock with a TTL guarding against a crashed
// holder.
func (l *RedisLocker) Lock(ctx context.Context, userID int64) (func(), error) {
	key := fmt.Sprintf(userLockKeyPattern, userID)

	acquired, err := l.client.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		l.log.Error("failed to acquire user session lock", "user_id", userID, "error", err)
		return nil, err
	}

	if !acquired {
		l.log.Warn("user session lock already held", "user_id", userID)
		return nil, ErrSessionLocked
	}

	release := func() {
		if err := l.client.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			l.log.Error("failed to release user session lock", "user_id", userID, "error", err)
		}
	}

	return release, nil
}

// MemoryLocker implements Locker with per-user in-process mutexes for
// deployments without Redis.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewMemoryLocker creates an in-process per-user locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[int64]*sync.Mutex),
	}
}

// Lock blocks until the per-user mutex is available. Unlike the Redis
// variant it serializes same-user events instead of failing fast, which
// is the natural behavior for a single process.
func (l *MemoryLocker) Lock(ctx context.Context, userID int64) (func(), error) {
	l.mu.Lock()
	userMu, ok := l.locks[userID]
	if !ok {
		userMu = &sync.Mutex{}
		l.locks[userID] = userMu
	}
	l.mu.Unlock()

	userMu.Lock()
	return userMu.Unlock, nil
}
