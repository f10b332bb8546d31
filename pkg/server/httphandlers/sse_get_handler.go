package httphandlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/traego/weather-bridge/internal/channels"
	"github.com/traego/weather-bridge/pkg/session/store"
	"github.com/traego/weather-bridge/pkg/utils"
)

// HandleSSEGet establishes a 2024-11-05 SSE session. A session is minted for
// the lifetime of the stream; the first event tells the client where to POST
// its messages.
func (h *MCPHandler) HandleSSEGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := utils.GenerateSecureID(20)
	if err != nil {
		handleError(w, err, nil)
		return
	}

	session := &LiveSession{
		Session: store.Session{
			SessionID:       sessionID,
			Transport:       store.TransportSSE,
			ProtocolVersion: "2024-11-05",
			CreatedAt:       time.Now(),
		},
		Handler: h.newHandler(store.TransportSSE),
	}

	if err := h.sessionStore.RegisterSession(ctx, session.Session, h.config.Session.TTL); err != nil {
		handleError(w, err, nil)
		return
	}
	h.sessions.Put(sessionID, session)

	channel, err := channels.NewSSEChannel(w)
	if err != nil {
		h.sessions.Remove(sessionID)
		_ = h.sessionStore.RemoveSession(ctx, sessionID)
		handleError(w, err, nil)
		return
	}
	session.AttachChannel(channel)

	endpoint := fmt.Sprintf("%s?sessionId=%s", h.config.HTTP.MessagePath, sessionID)
	if err := channel.SendEndpoint(endpoint); err != nil {
		slog.ErrorContext(ctx, "Failed to send endpoint event", "session_id", sessionID, "error", err)
	}

	slog.InfoContext(ctx, "SSE session established", "session_id", sessionID)

	select {
	case <-channel.GetDoneChannel():
	case <-ctx.Done():
	}

	// The session lives only as long as its stream. The request context is
	// usually canceled by now, so cleanup uses a fresh one.
	channel.Close()
	h.sessions.Remove(sessionID)
	if err := h.sessionStore.RemoveSession(context.Background(), sessionID); err != nil {
		slog.DebugContext(ctx, "Session already removed", "session_id", sessionID)
	}
	slog.InfoContext(ctx, "SSE session closed", "session_id", sessionID)
}
