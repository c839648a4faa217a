package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStorage_Lifecycle(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	_, err := storage.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := &Session{UserID: 1, CurrentState: StateAwaitingModel}
	assert.NoError(t, storage.Set(ctx, 1, sess))

	stored, err := storage.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, StateAwaitingModel, stored.CurrentState)

	// The returned session is a copy: mutating it must not leak back.
	stored.Model = "mutated"
	again, err := storage.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, again.Model)

	assert.NoError(t, storage.Clear(ctx, 1))
	_, err = storage.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Clearing a never-stored session is a no-op.
	assert.NoError(t, storage.Clear(ctx, 42))
}

func TestCleaner_RemovesExpiredSessions(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	stale := &Session{UserID: 1, CurrentState: StateAwaitingName}
	assert.NoError(t, storage.Set(ctx, 1, stale))

	// Backdate past the TTL; Set stamps UpdatedAt so rewrite directly.
	storage.mu.Lock()
	storage.sessions[1].UpdatedAt = time.Now().UTC().Add(-2 * time.Hour)
	storage.mu.Unlock()

	fresh := &Session{UserID: 2, CurrentState: StateAwaitingModel}
	assert.NoError(t, storage.Set(ctx, 2, fresh))

	cleaner := NewCleaner(storage, testLogger(), time.Hour, time.Minute)
	cleaner.cleanup(ctx)

	_, err := storage.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	kept, err := storage.Get(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, StateAwaitingModel, kept.CurrentState)
}
