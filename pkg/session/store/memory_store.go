package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// MemorySessionStore implements SessionStore using an in-memory map
type MemorySessionStore struct {
	sessions     map[string]sessionData
	mu           sync.RWMutex
	cleanupTimer *time.Ticker
	done         chan struct{}
	closeOnce    sync.Once
}

// sessionData represents session data with expiration time
type sessionData struct {
	session  Session
	expireAt time.Time
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	store := &MemorySessionStore{
		sessions: make(map[string]sessionData),
		done:     make(chan struct{}),
	}

	// Start a cleanup goroutine to remove expired sessions
	store.cleanupTimer = time.NewTicker(1 * time.Minute)
	go store.cleanupExpiredSessions()

	slog.Info("Created in-memory session store")
	return store
}

// cleanupExpiredSessions periodically removes expired sessions
func (s *MemorySessionStore) cleanupExpiredSessions() {
	for {
		select {
		case <-s.cleanupTimer.C:
			s.mu.Lock()
			now := time.Now()
			for sessionID, data := range s.sessions {
				if now.After(data.expireAt) {
					delete(s.sessions, sessionID)
					slog.Debug("Removed expired session", "session_id", sessionID)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			s.cleanupTimer.Stop()
			return
		}
	}
}

// RegisterSession registers a new session with the given TTL
func (s *MemorySessionStore) RegisterSession(ctx context.Context, session Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.SessionID] = sessionData{
		session:  session,
		expireAt: time.Now().Add(ttl),
	}

	slog.Debug("Registered session",
		"session_id", session.SessionID,
		"transport", session.Transport,
		"ttl", ttl)
	return nil
}

// GetSession retrieves a session by ID
func (s *MemorySessionStore) GetSession(ctx context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.sessions[sessionID]
	if !exists {
		return Session{}, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	// Check if the session has expired
	if time.Now().After(data.expireAt) {
		return Session{}, fmt.Errorf("session %s expired: %w", sessionID, ErrSessionNotFound)
	}

	return data.session, nil
}

// RemoveSession removes a session
func (s *MemorySessionStore) RemoveSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	delete(s.sessions, sessionID)
	slog.Debug("Removed session", "session_id", sessionID)
	return nil
}

// RefreshSession refreshes the TTL for a session
func (s *MemorySessionStore) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.sessions[sessionID]
	if !exists {
		return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	data.expireAt = time.Now().Add(ttl)
	s.sessions[sessionID] = data

	slog.Debug("Refreshed session", "session_id", sessionID, "ttl", ttl)
	return nil
}

// SessionExists checks if a session exists
func (s *MemorySessionStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.sessions[sessionID]
	if !exists {
		return false, nil
	}

	// Check if the session has expired
	if time.Now().After(data.expireAt) {
		return false, nil
	}

	return true, nil
}

// Close stops the cleanup goroutine
func (s *MemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

var _ SessionStore = (*MemorySessionStore)(nil)
