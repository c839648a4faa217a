package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryDeduper tracks seen update keys in process memory. Suitable for
// single-instance deployments without Redis.
type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryDeduper creates an in-memory deduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[string]time.Time)}
}

// FirstSeen records the key and reports whether this call was the first
// within the TTL window.
func (d *MemoryDeduper) FirstSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if expiry, ok := d.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}

	d.seen[key] = now.Add(ttl)
	return true, nil
}

// Cleanup drops expired keys. Meant to be called periodically.
func (d *MemoryDeduper) Cleanup() {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for key, expiry := range d.seen {
		if now.After(expiry) {
			delete(d.seen, key)
		}
	}
}

// RunCleaner runs Cleanup on the given interval until ctx is cancelled.
func (d *MemoryDeduper) RunCleaner(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Cleanup()
		}
	}
}
