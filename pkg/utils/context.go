package utils

import "context"

type sessionIDCtxKey struct{}

// SetSessionID stores the session id on the context for request handlers.
func SetSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDCtxKey{}, sessionID)
}

// GetSessionID returns the session id stored on the context, or "".
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDCtxKey{}).(string); ok {
		return id
	}
	return ""
}
