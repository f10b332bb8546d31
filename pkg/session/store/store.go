package store

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// TransportKind identifies which transport created a session. The capability
// set a session sees depends on it.
type TransportKind string

const (
	TransportStreamableHTTP TransportKind = "streamable-http"
	TransportSSE            TransportKind = "sse"
	TransportStdio          TransportKind = "stdio"
)

type Session struct {
	SessionID       string        `json:"session_id"`
	Transport       TransportKind `json:"transport"`
	ProtocolVersion string        `json:"protocol_version"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SessionStore defines the interface for session storage
type SessionStore interface {
	// RegisterSession registers a new session with the given TTL
	RegisterSession(ctx context.Context, session Session, ttl time.Duration) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, sessionID string) (Session, error)

	// RemoveSession removes a session
	RemoveSession(ctx context.Context, sessionID string) error

	// RefreshSession refreshes the TTL for a session
	RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) error

	// SessionExists checks if a session exists
	SessionExists(ctx context.Context, sessionID string) (bool, error)

	// Close closes the session store
	Close() error
}
