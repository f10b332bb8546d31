package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements SessionStore using Redis
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// redisOptions builds the client options. Only the first address is used.
func redisOptions(addresses []string, password string, db int) *redis.Options {
	return &redis.Options{
		Addr:     addresses[0],
		Password: password,
		DB:       db,
	}
}

// NewRedisSessionStore creates a new Redis session store
func NewRedisSessionStore(addresses []string, password string, db int, prefix string) (*RedisSessionStore, error) {
	opts := redisOptions(addresses, password, db)
	client := redis.NewClient(opts)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	slog.Info("Connected to Redis", "address", opts.Addr)

	return &RedisSessionStore{
		client: client,
		prefix: prefix,
	}, nil
}

// sessionKey returns the Redis key for a session
func (s *RedisSessionStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

// RegisterSession registers a new session with the given TTL
func (s *RedisSessionStore) RegisterSession(ctx context.Context, session Session, ttl time.Duration) error {
	sessionKey := s.sessionKey(session.SessionID)

	// Serialize the session object
	sessionData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", session.SessionID, err)
	}

	if err := s.client.Set(ctx, sessionKey, sessionData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to register session %s: %w", session.SessionID, err)
	}

	slog.Debug("Registered session",
		"session_id", session.SessionID,
		"transport", session.Transport,
		"ttl", ttl)
	return nil
}

// GetSession retrieves a session by ID
func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (Session, error) {
	sessionKey := s.sessionKey(sessionID)

	sessionData, err := s.client.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	} else if err != nil {
		return Session{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	// Deserialize the session object
	var session Session
	err = json.Unmarshal([]byte(sessionData), &session)
	if err != nil {
		return Session{}, fmt.Errorf("failed to deserialize session %s: %w", sessionID, err)
	}

	return session, nil
}

// RemoveSession removes a session
func (s *RedisSessionStore) RemoveSession(ctx context.Context, sessionID string) error {
	sessionKey := s.sessionKey(sessionID)

	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to remove session %s: %w", sessionID, err)
	}

	slog.Debug("Removed session", "session_id", sessionID)
	return nil
}

// RefreshSession refreshes the TTL for a session
func (s *RedisSessionStore) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	sessionKey := s.sessionKey(sessionID)

	ok, err := s.client.Expire(ctx, sessionKey, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session %s: %w", sessionID, err)
	}
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	slog.Debug("Refreshed session", "session_id", sessionID, "ttl", ttl)
	return nil
}

// SessionExists checks if a session exists
func (s *RedisSessionStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	sessionKey := s.sessionKey(sessionID)

	exists, err := s.client.Exists(ctx, sessionKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if session %s exists: %w", sessionID, err)
	}

	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var _ SessionStore = (*RedisSessionStore)(nil)
