// Package server implements the MCP server over the streamable HTTP, SSE
// and stdio transports. One configurable factory covers every variant; the
// capability set is selected per transport kind.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/executors"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
	"github.com/traego/weather-bridge/pkg/server/httphandlers"
	"github.com/traego/weather-bridge/pkg/session/store"
)

// ToolsetSelector returns the feature registry a session of the given
// transport kind sees. When nil, every transport shares the server's base
// registry.
type ToolsetSelector func(kind store.TransportKind) *resources.FeatureRegistry

// McpServer represents an MCP server
type McpServer struct {
	config             *config.ServerConfig
	serverCapabilities protocol.ServerCapabilities
	httpServer         *http.Server
	mcpHandler         *httphandlers.MCPHandler
	featureRegistry    resources.FeatureRegistry
	sessionStore       store.SessionStore
	liveSessions       *httphandlers.LiveSessionMap
	toolsetSelector    ToolsetSelector

	// User-provided router (optional)
	userRouter chi.Router

	// Track if we created the server internally
	createdServer bool

	// Store the handler for reuse
	internalHandler http.Handler

	// Whether we own the session store and should close it on Stop
	ownsSessionStore bool
}

func (s *McpServer) GetServerConfig() *config.ServerConfig {
	return s.config
}

func (s *McpServer) GetFeatureRegistry() *resources.FeatureRegistry {
	return &s.featureRegistry
}

func (s *McpServer) GetServerCapabilities() protocol.ServerCapabilities {
	return s.serverCapabilities
}

var _ config.McpServerInfo = (*McpServer)(nil)

// McpServerOption represents an option for the MCP server
type McpServerOption func(*McpServer)

// WithRouter allows the user to provide a chi router for handler
// registration. Useful when mounting the MCP server inside an existing
// application.
func WithRouter(router chi.Router) McpServerOption {
	return func(s *McpServer) {
		s.userRouter = router
	}
}

// WithToolRegistry sets the tool registry for the server
func WithToolRegistry(registry resources.ToolRegistry) McpServerOption {
	return func(s *McpServer) {
		s.featureRegistry.ToolRegistry = registry
	}
}

// WithPromptRegistry sets the prompt registry for the server
func WithPromptRegistry(registry resources.PromptRegistry) McpServerOption {
	return func(s *McpServer) {
		s.featureRegistry.PromptRegistry = registry
	}
}

// WithResourceRegistry sets the resource registry for the server
func WithResourceRegistry(registry resources.ResourceRegistry) McpServerOption {
	return func(s *McpServer) {
		s.featureRegistry.ResourceRegistry = registry
	}
}

// WithSessionStore injects the session metadata store. Without it the
// server builds its own from the config (memory, or Redis when configured).
func WithSessionStore(st store.SessionStore) McpServerOption {
	return func(s *McpServer) {
		s.sessionStore = st
	}
}

// WithToolsetSelector sets the per-transport capability set selection.
func WithToolsetSelector(selector ToolsetSelector) McpServerOption {
	return func(s *McpServer) {
		s.toolsetSelector = selector
	}
}

// NewMcpServer creates a new MCP server
func NewMcpServer(cfg *config.ServerConfig, options ...McpServerOption) (*McpServer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	server := &McpServer{
		config:             cfg,
		serverCapabilities: cfg.ServerCapabilities,
		liveSessions:       httphandlers.NewLiveSessionMap(),
	}

	// Apply options
	for _, opt := range options {
		opt(server)
	}

	// Create a default static tool registry if none provided
	if server.featureRegistry.ToolRegistry == nil {
		server.featureRegistry.ToolRegistry = resources.NewStaticToolRegistry()
		slog.Info("Using default static tool registry")
	}

	if server.featureRegistry.PromptRegistry == nil {
		server.featureRegistry.PromptRegistry = resources.NewStaticPromptRegistry()
	}

	if server.featureRegistry.ResourceRegistry == nil {
		server.featureRegistry.ResourceRegistry = resources.NewStaticResourceRegistry()
	}

	if server.sessionStore == nil {
		st, err := buildSessionStore(cfg)
		if err != nil {
			return nil, err
		}
		server.sessionStore = st
		server.ownsSessionStore = true
	}

	// Create the MCP handler
	server.mcpHandler = httphandlers.NewMCPHandler(cfg, server.liveSessions, server.sessionStore, server.SessionHandler)

	// Create the internal handler
	server.internalHandler = server.createHTTPHandler()

	return server, nil
}

func buildSessionStore(cfg *config.ServerConfig) (store.SessionStore, error) {
	if !cfg.Session.UseInMemory && cfg.Redis != nil {
		st, err := store.NewRedisSessionStore(cfg.Redis.Addresses, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		return st, nil
	}
	return store.NewMemorySessionStore(), nil
}

// SessionHandler builds the method handler for a new session of the given
// transport kind.
func (s *McpServer) SessionHandler(kind store.TransportKind) config.MethodHandler {
	features := &s.featureRegistry
	if s.toolsetSelector != nil {
		if selected := s.toolsetSelector(kind); selected != nil {
			features = selected
		}
	}
	return executors.DefaultExecutors(&transportServerInfo{server: s, features: features})
}

// transportServerInfo scopes the server info to one session's capability
// set.
type transportServerInfo struct {
	server   *McpServer
	features *resources.FeatureRegistry
}

func (t *transportServerInfo) GetFeatureRegistry() *resources.FeatureRegistry { return t.features }
func (t *transportServerInfo) GetServerConfig() *config.ServerConfig          { return t.server.config }
func (t *transportServerInfo) GetServerCapabilities() protocol.ServerCapabilities {
	return t.server.serverCapabilities
}

var _ config.McpServerInfo = (*transportServerInfo)(nil)

// LiveSessionCount reports how many sessions currently hold live transport
// state.
func (s *McpServer) LiveSessionCount() int {
	return s.liveSessions.Len()
}

// Start starts the MCP server
func (s *McpServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.HTTP.Host, s.config.HTTP.Port)

	if s.httpServer != nil {
		s.createdServer = false
		slog.InfoContext(ctx, "Using user-provided HTTP server")
	} else if s.userRouter == nil {
		s.httpServer = &http.Server{
			Addr:    addr,
			Handler: s.internalHandler,
		}
		s.createdServer = true
		slog.InfoContext(ctx, "Created internal HTTP server", "addr", addr)
	}

	if s.createdServer {
		slog.InfoContext(ctx, "Starting HTTP server", "addr", addr)
		go func() {
			if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.ErrorContext(ctx, "HTTP server error", "error", err)
			}
		}()
	} else {
		slog.InfoContext(ctx, "HTTP server will be started externally")
	}

	slog.InfoContext(ctx, "MCP server started", "address", addr)
	return nil
}

// Stop stops the MCP server. Live sessions are swept best-effort; a failing
// session never blocks the rest of shutdown.
func (s *McpServer) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	slog.InfoContext(ctx, "Sweeping live sessions", "count", s.liveSessions.Len())
	s.liveSessions.CloseAll()

	if s.ownsSessionStore && s.sessionStore != nil {
		if err := s.sessionStore.Close(); err != nil {
			slog.Error("Failed to close session store", "err", err)
		}
	}

	if s.httpServer != nil && s.createdServer {
		slog.InfoContext(ctx, "Stopping HTTP Server")
		if err := s.httpServer.Shutdown(ctx); err != nil {
			slog.Error("Failed to shutdown HTTP server", "err", err)
		}
	}
}

// ServeHTTP implements http.Handler, allowing the MCP server to be used
// directly as a handler.
func (s *McpServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.internalHandler.ServeHTTP(w, r)
}

// createHTTPHandler creates the HTTP handler for the MCP server
func (s *McpServer) createHTTPHandler() http.Handler {
	var r chi.Router

	if s.userRouter != nil {
		r = s.userRouter
		slog.Info("Using user-provided chi router")
	} else {
		r = chi.NewRouter()

		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(s.loggingMiddleware)
		r.Use(s.jsonRpcErrorMiddleware)
		r.Use(middleware.Recoverer)

		if s.config.HTTP.CORS.Enable {
			corsOptions := cors.Options{
				AllowedOrigins:   s.config.HTTP.CORS.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   s.config.HTTP.CORS.AllowedHeaders,
				ExposedHeaders:   s.config.HTTP.CORS.ExposedHeaders,
				AllowCredentials: s.config.HTTP.CORS.AllowCredentials,
				MaxAge:           int(s.config.HTTP.CORS.MaxAge.Seconds()),
			}
			r.Use(cors.Handler(corsOptions))
		}
	}

	// Main MCP endpoint: POST for messages and session minting, GET for the
	// event stream, DELETE for explicit close
	r.Route(s.config.HTTP.MCPPath, func(r chi.Router) {
		r.Post("/", s.mcpHandler.HandleMCPPost)
		r.Get("/", s.mcpHandler.HandleMCPGet)
		r.Delete("/", s.mcpHandler.HandleMCPDelete)
	})

	// Optional endpoints for 2024 version client negotiation
	if s.config.BackwardCompatible20241105 {
		r.Get(s.config.HTTP.SSEPath, s.mcpHandler.HandleSSEGet)
		r.Post(s.config.HTTP.MessagePath, s.mcpHandler.HandleMessagePost)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// loggingMiddleware logs HTTP requests
func (s *McpServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		ctx := r.Context()
		latency := time.Since(start)
		slog.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", latency.String(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}

// jsonRpcErrorMiddleware converts panics on MCP endpoints to JSON-RPC errors
func (s *McpServer) jsonRpcErrorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			if err := recover(); err != nil {
				if !strings.HasPrefix(r.URL.Path, s.config.HTTP.MCPPath) {
					// Non-MCP endpoints are handled by the standard Recoverer
					panic(err)
				}

				slog.Error("Panic in handler", "error", err, "stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)

				internalError := protocol.NewInternalError(fmt.Sprintf("Internal server error: %v", err), nil)
				responseJSON, marshalErr := json.Marshal(internalError.ToResponse())
				if marshalErr != nil {
					fallbackError := protocol.NewServerError(protocol.ErrServer, "Internal server error", nil, nil)
					fallbackJSON, _ := json.Marshal(fallbackError.ToResponse())
					_, _ = w.Write(fallbackJSON)
					return
				}

				_, _ = w.Write(responseJSON)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
