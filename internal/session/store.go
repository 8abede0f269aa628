// Package session binds opaque tokens to authenticated users for a bounded
// lifetime. The default backend is an in-memory map; a Redis backend is
// available for deployments where sessions must survive a restart.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is a server-side session record. Clients only ever see the token,
// as a cookie value.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store is the session backend contract.
type Store interface {
	// Create issues a new session for the user.
	Create(ctx context.Context, userID int) (Session, error)
	// Get resolves a token to a live session.
	Get(ctx context.Context, token string) (Session, error)
	// Delete invalidates a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	// Close releases backend resources.
	Close() error
}

// MemoryStore keeps sessions in process memory, guarded by an RWMutex. A
// janitor goroutine sweeps expired records so the map does not grow without
// bound under abandoned sessions.
type MemoryStore struct {
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[string]Session

	stop chan struct{}
	once sync.Once
}

const janitorInterval = time.Hour

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Create(_ context.Context, userID int) (Session, error) {
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || time.Now().After(sess.ExpiresAt) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.ExpiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
