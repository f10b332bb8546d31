// Package httphandlers implements the HTTP transports of the MCP server:
// the streamable HTTP endpoint and the backward compatible 2024-11-05 SSE
// endpoints. Session lifecycle lives here; dispatch is delegated to the
// injected method handlers.
package httphandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/session/store"
)

// SessionHandlerFactory builds the method handler for a new session. The
// capability set varies by transport kind, so the factory takes the kind.
type SessionHandlerFactory func(kind store.TransportKind) config.MethodHandler

// MCPHandler handles MCP protocol requests
type MCPHandler struct {
	config       *config.ServerConfig
	sessions     *LiveSessionMap
	sessionStore store.SessionStore
	newHandler   SessionHandlerFactory
}

// NewMCPHandler creates a new MCP handler
func NewMCPHandler(cfg *config.ServerConfig, sessions *LiveSessionMap, sessionStore store.SessionStore, newHandler SessionHandlerFactory) *MCPHandler {
	return &MCPHandler{
		config:       cfg,
		sessions:     sessions,
		sessionStore: sessionStore,
		newHandler:   newHandler,
	}
}

type McpRequest struct {
	IsBatch  bool
	Message  protocol.JSONRPCMessage
	Messages []protocol.JSONRPCMessage
}

func parseMessageRequest(r *http.Request) (McpRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return McpRequest{}, fmt.Errorf("failed to read body: %w", err)
	}

	var message protocol.JSONRPCMessage
	var messages []protocol.JSONRPCMessage
	var isBatch bool

	// Try to parse as a single message first
	if err := json.Unmarshal(body, &message); err != nil {
		// If that fails, try to parse as a batch
		if err := json.Unmarshal(body, &messages); err != nil {
			return McpRequest{}, protocol.NewParseError(err.Error(), nil)
		}
		isBatch = true
	}

	return McpRequest{
		IsBatch:  isBatch,
		Message:  message,
		Messages: messages,
	}, nil
}

func writeMessage(w http.ResponseWriter, msg protocol.JSONRPCMessage) {
	responseJSON, err := json.Marshal(msg)
	if err != nil {
		handleError(w, err, msg.ID)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(responseJSON)
}

// handleError writes an error response, distinguishing JSON-RPC errors from
// everything else.
func handleError(w http.ResponseWriter, err error, id interface{}) {
	w.Header().Set("Content-Type", "application/json")

	var jsonRpcError *protocol.JsonRpcError
	if errors.As(err, &jsonRpcError) {
		if jsonRpcError.ID == nil {
			jsonRpcError.ID = id
		}

		responseJSON, marshalErr := json.Marshal(jsonRpcError.ToResponse())
		if marshalErr != nil {
			slog.Error("Failed to marshal JSON-RPC error response", "error", marshalErr)
			fallbackError := protocol.NewServerError(protocol.ErrServer, "Internal server error", nil, id)
			fallbackJSON, _ := json.Marshal(fallbackError.ToResponse())
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(fallbackJSON)
			return
		}

		// JSON-RPC errors use 200 OK with the error in the body
		w.WriteHeader(http.StatusOK)
		if _, writeErr := w.Write(responseJSON); writeErr != nil {
			slog.Error("Failed to write JSON-RPC error response", "error", writeErr)
		}
		return
	}

	slog.Error("Internal server error", "error", err)

	internalError := protocol.NewInternalError(err.Error(), id)
	responseJSON, marshalErr := json.Marshal(internalError.ToResponse())
	if marshalErr != nil {
		slog.Error("Failed to marshal internal error response", "error", marshalErr)
		fallbackError := protocol.NewServerError(protocol.ErrServer, "Internal server error", nil, id)
		fallbackJSON, _ := json.Marshal(fallbackError.ToResponse())
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(fallbackJSON)
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	if _, writeErr := w.Write(responseJSON); writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}

// writeSessionNotFound rejects a request carrying an unknown session id.
// Unknown ids are never re-minted into new sessions.
func writeSessionNotFound(w http.ResponseWriter, sessionID string, id interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	respErr := protocol.NewSessionNotFoundError(sessionID, id)
	responseJSON, err := json.Marshal(respErr.ToResponse())
	if err != nil {
		return
	}
	_, _ = w.Write(responseJSON)
}
