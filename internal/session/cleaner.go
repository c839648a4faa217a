package session

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes abandoned sessions from storage on a schedule. The
// Redis driver expires sessions on its own; the cleaner covers the
// in-memory driver and acts as a safety net otherwise.
type Cleaner struct {
	storage  Storage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage Storage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil || c.ttl <= 0 || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	sessions, err := c.storage.GetAll(ctx)
	if err != nil {
		c.log.Error("session cleaner failed to list sessions", slog.Any("error", err))
		return
	}

	cutoff := time.Now().UTC().Add(-c.ttl)
	for _, sess := range sessions {
		if sess == nil || !sess.UpdatedAt.Before(cutoff) {
			continue
		}

		if err := c.storage.Clear(ctx, sess.UserID); err != nil {
			c.log.Error("session cleaner failed to clear session", slog.Int64("user_id", sess.UserID), slog.Any("error", err))
			continue
		}

		RecordTransition(sess.CurrentState, StateIdle)
		c.log.Info("expired session cleared", slog.Int64("user_id", sess.UserID), slog.String("state", string(sess.CurrentState)))
	}
}
