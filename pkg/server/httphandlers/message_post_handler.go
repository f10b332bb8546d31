package httphandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/utils"
)

// HandleMessagePost routes a 2024-11-05 client message to its session. The
// response travels back over the session's SSE stream; the POST itself is
// acknowledged with 202.
func (h *MCPHandler) HandleMessagePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("sessionId")

	mcpRequest, err := parseMessageRequest(r)
	if err != nil {
		handleError(w, err, nil)
		return
	}

	if mcpRequest.IsBatch {
		// The 2024 spec does not allow batching
		respErr := protocol.NewInvalidRequestError("batched json rpc calls are not allowed in the 2024-11-05 spec", nil)
		handleError(w, respErr, nil)
		return
	}

	session, ok := h.sessions.Get(sessionID)
	if sessionID == "" || !ok {
		writeSessionNotFound(w, sessionID, mcpRequest.Message.ID, http.StatusBadRequest)
		return
	}

	msg := mcpRequest.Message
	ctx = utils.SetSessionID(ctx, sessionID)
	dispatchCtx, cancel := h.dispatchContext(ctx)
	defer cancel()

	resp, err := session.Handler.HandleMethod(dispatchCtx, msg.Method, msg)
	if err != nil {
		var rpcErr *protocol.JsonRpcError
		if !errors.As(err, &rpcErr) {
			rpcErr = protocol.NewInternalError(err.Error(), msg.ID)
		}
		if channel := session.Channel(); channel != nil {
			if sendErr := channel.Send("message", rpcErr.ToResponse()); sendErr != nil {
				slog.WarnContext(ctx, "Failed to send error over SSE stream",
					"session_id", sessionID, "error", sendErr)
			}
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if !msg.IsNotification() {
		channel := session.Channel()
		if channel == nil {
			slog.WarnContext(ctx, "No stream attached to session, dropping response", "session_id", sessionID)
		} else if sendErr := channel.Send("message", resp); sendErr != nil {
			slog.WarnContext(ctx, "Failed to send response over SSE stream",
				"session_id", sessionID, "error", sendErr)
		}
	}

	// 202 Accepted with no content per the 2024 spec
	w.WriteHeader(http.StatusAccepted)
}
