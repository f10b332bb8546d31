package httphandlers

import (
	"log/slog"
	"sync"

	"github.com/traego/weather-bridge/internal/channels"
	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/session/store"
)

// LiveSession binds a registered session to its method handler and, once a
// stream is attached, its server-to-client channel.
type LiveSession struct {
	Session store.Session
	Handler config.MethodHandler

	mu      sync.Mutex
	channel channels.OneWayChannel
}

// AttachChannel binds a server-to-client channel to the session, replacing
// and closing any previous one.
func (s *LiveSession) AttachChannel(ch channels.OneWayChannel) {
	s.mu.Lock()
	prev := s.channel
	s.channel = ch
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// DetachChannel clears the session's channel if it is still the given one.
func (s *LiveSession) DetachChannel(ch channels.OneWayChannel) {
	s.mu.Lock()
	if s.channel == ch {
		s.channel = nil
	}
	s.mu.Unlock()
}

// Channel returns the currently attached channel, nil when none.
func (s *LiveSession) Channel() channels.OneWayChannel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// Close closes the attached channel, if any.
func (s *LiveSession) Close() {
	s.mu.Lock()
	ch := s.channel
	s.channel = nil
	s.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
}

// LiveSessionMap maps session ids to live transport state. It is owned by
// the server instance and injected into the handlers; every access goes
// through the mutex.
type LiveSessionMap struct {
	mu       sync.RWMutex
	sessions map[string]*LiveSession
}

func NewLiveSessionMap() *LiveSessionMap {
	return &LiveSessionMap{sessions: make(map[string]*LiveSession)}
}

func (m *LiveSessionMap) Put(sessionID string, session *LiveSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = session
}

func (m *LiveSessionMap) Get(sessionID string) (*LiveSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

func (m *LiveSessionMap) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *LiveSessionMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll closes every live session's channel. Used by the shutdown sweep;
// failures are logged per session, never escalated.
func (m *LiveSessionMap) CloseAll() {
	m.mu.Lock()
	sessions := make([]*LiveSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*LiveSession)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		slog.Debug("Closed live session", "session_id", s.Session.SessionID)
	}
}
