// Package session manages per-user dialog sessions and their storage.
package session

import (
	"context"
	"errors"
)

var (
	// ErrSessionNotFound indicates that no session exists for the user,
	// which is how an idle user is represented.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLocked indicates that a concurrent event for the same
	// user already holds the per-user lock.
	ErrSessionLocked = errors.New("session is locked, try again later")
	// ErrInvalidTransition indicates a requested state change is not in
	// the dialog order.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Storage defines the persistence contract for dialog sessions.
type Storage interface {
	// Get returns the session for the user or ErrSessionNotFound.
	Get(ctx context.Context, userID int64) (*Session, error)
	// Set saves the session for the user.
	Set(ctx context.Context, userID int64, sess *Session) error
	// Clear removes the session for the user. Clearing an absent
	// session is not an error.
	Clear(ctx context.Context, userID int64) error
	// GetAll returns every stored session.
	GetAll(ctx context.Context) ([]*Session, error)
}
