package httphandlers

import (
	"log/slog"
	"net/http"

	"github.com/traego/weather-bridge/internal/channels"
	"github.com/traego/weather-bridge/pkg/protocol"
)

// HandleMCPGet opens the server-to-client event stream for an existing
// streamable HTTP session. The session must already exist; streams are never
// a way to mint sessions.
func (h *MCPHandler) HandleMCPGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.Header.Get(protocol.SessionIDHeader)

	session, ok := h.sessions.Get(sessionID)
	if sessionID == "" || !ok {
		writeSessionNotFound(w, sessionID, nil, http.StatusNotFound)
		return
	}

	channel, err := channels.NewSSEChannel(w)
	if err != nil {
		handleError(w, err, nil)
		return
	}

	session.AttachChannel(channel)
	slog.DebugContext(ctx, "Event stream attached", "session_id", sessionID)

	select {
	case <-channel.GetDoneChannel():
	case <-ctx.Done():
	}

	session.DetachChannel(channel)
	channel.Close()
	slog.DebugContext(ctx, "Event stream closed", "session_id", sessionID)
}
