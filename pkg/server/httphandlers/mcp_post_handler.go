package httphandlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/session/store"
	"github.com/traego/weather-bridge/pkg/utils"
)

// HandleMCPPost handles an MCP request on the streamable HTTP transport.
// Requests without a session id must be initialize messages; they mint a new
// session. Requests with a known id route to the existing session.
func (h *MCPHandler) HandleMCPPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.Header.Get(protocol.SessionIDHeader)

	mcpRequest, err := parseMessageRequest(r)
	if err != nil {
		handleError(w, err, nil)
		return
	}

	if sessionID == "" {
		h.handleMcpInitDemand(ctx, w, mcpRequest)
		return
	}
	h.handleMcpMessages(ctx, sessionID, w, mcpRequest)
}

func (h *MCPHandler) handleMcpMessages(ctx context.Context, sessionID string, w http.ResponseWriter, mr McpRequest) {
	if mr.IsBatch {
		handleError(w, protocol.NewInvalidRequestError("batch messaging not supported", nil), nil)
		return
	}

	session, ok := h.sessions.Get(sessionID)
	if !ok {
		writeSessionNotFound(w, sessionID, mr.Message.ID, http.StatusNotFound)
		return
	}

	// Keep the metadata store in step with activity on the session
	if err := h.sessionStore.RefreshSession(ctx, sessionID, h.config.Session.TTL); err != nil {
		slog.WarnContext(ctx, "Failed to refresh session", "session_id", sessionID, "error", err)
	}

	ctx = utils.SetSessionID(ctx, sessionID)

	if mr.Message.IsNotification() {
		dispatchCtx, cancel := h.dispatchContext(ctx)
		defer cancel()
		if _, err := session.Handler.HandleMethod(dispatchCtx, mr.Message.Method, mr.Message); err != nil {
			slog.WarnContext(ctx, "Notification handling failed",
				"session_id", sessionID, "method", mr.Message.Method, "error", err)
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	dispatchCtx, cancel := h.dispatchContext(ctx)
	defer cancel()

	resp, err := session.Handler.HandleMethod(dispatchCtx, mr.Message.Method, mr.Message)
	if err != nil {
		handleError(w, err, mr.Message.ID)
		return
	}
	writeMessage(w, resp)
}

func (h *MCPHandler) handleMcpInitDemand(ctx context.Context, w http.ResponseWriter, mr McpRequest) {
	if mr.IsBatch {
		respErr := protocol.NewInvalidRequestError("batch requests are disallowed before initialization", nil)
		handleError(w, respErr, nil)
		return
	}

	msg := mr.Message
	if msg.Method != "initialize" {
		respErr := protocol.NewInvalidRequestError("missing "+protocol.SessionIDHeader+", expecting initialize message", msg.ID)
		handleError(w, respErr, nil)
		return
	}

	sessionID, err := utils.GenerateSecureID(20)
	if err != nil {
		handleError(w, err, msg.ID)
		return
	}

	session := &LiveSession{
		Session: store.Session{
			SessionID:       sessionID,
			Transport:       store.TransportStreamableHTTP,
			ProtocolVersion: h.config.ProtocolVersion,
			CreatedAt:       time.Now(),
		},
		Handler: h.newHandler(store.TransportStreamableHTTP),
	}

	// The session must be registered and live before the initialize response
	// is written, or an immediate follow-up request could miss it.
	if err := h.sessionStore.RegisterSession(ctx, session.Session, h.config.Session.TTL); err != nil {
		handleError(w, err, msg.ID)
		return
	}
	h.sessions.Put(sessionID, session)

	ctx = utils.SetSessionID(ctx, sessionID)
	dispatchCtx, cancel := h.dispatchContext(ctx)
	defer cancel()

	resp, err := session.Handler.HandleMethod(dispatchCtx, msg.Method, msg)
	if err != nil {
		h.sessions.Remove(sessionID)
		_ = h.sessionStore.RemoveSession(ctx, sessionID)
		handleError(w, err, msg.ID)
		return
	}

	if ir, ok := resp.Result.(protocol.InitializeResult); ok {
		ir.SessionID = sessionID
		resp.Result = ir
	}

	w.Header().Set(protocol.SessionIDHeader, sessionID)
	writeMessage(w, resp)

	slog.InfoContext(ctx, "Session initialized",
		"session_id", sessionID, "transport", store.TransportStreamableHTTP)
}

// HandleMCPDelete closes a session explicitly.
func (h *MCPHandler) HandleMCPDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.Header.Get(protocol.SessionIDHeader)

	session, ok := h.sessions.Get(sessionID)
	if sessionID == "" || !ok {
		writeSessionNotFound(w, sessionID, nil, http.StatusNotFound)
		return
	}

	session.Close()
	h.sessions.Remove(sessionID)
	if err := h.sessionStore.RemoveSession(ctx, sessionID); err != nil {
		slog.WarnContext(ctx, "Failed to remove session from store", "session_id", sessionID, "error", err)
	}

	slog.InfoContext(ctx, "Session closed", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *MCPHandler) dispatchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
