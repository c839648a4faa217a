package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps dialog sessions in process memory. It backs
// single-instance deployments that run without Redis, and tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStorage returns an empty in-memory Storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]*Session),
	}
}

// Get returns a copy of the stored session or ErrSessionNotFound.
func (s *MemoryStorage) Get(ctx context.Context, userID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return cloneSession(sess), nil
}

// Set stores a copy of the provided session.
func (s *MemoryStorage) Set(ctx context.Context, userID int64, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = cloneSession(sess)
	return nil
}

// Clear removes the session for the given user.
func (s *MemoryStorage) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// GetAll returns copies of every stored session.
func (s *MemoryStorage) GetAll(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, cloneSession(sess))
	}

	return result, nil
}

func cloneSession(sess *Session) *Session {
	if sess == nil {
		return nil
	}

	copied := *sess
	return &copied
}
