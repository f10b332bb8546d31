// Package config holds the configuration for the weather-bridge servers and
// clients. Server settings follow a struct-per-section layout; runtime
// secrets and endpoints come from the environment (see env.go).
package config

import (
	"time"

	"github.com/traego/weather-bridge/pkg/protocol"
)

// ServerConfig holds the configuration for an MCP server instance.
type ServerConfig struct {
	// HTTP server configuration
	HTTP HTTPConfig `json:"http"`

	// Redis configuration for distributed session metadata (optional)
	Redis *RedisConfig `json:"redis,omitempty"`

	// Session configuration
	Session SessionConfig `json:"session"`

	// Server information
	ServerInfo ServerInfo `json:"server_info"`

	// Protocol version to advertise on the streamable HTTP transport
	ProtocolVersion string `json:"protocol_version"`

	// Whether to serve the backward compatible 2024-11-05 SSE endpoints
	BackwardCompatible20241105 bool `json:"backward_compatible_2024_11_05"`

	ServerCapabilities protocol.ServerCapabilities `json:"server_capabilities"`

	// Per-request dispatch deadline
	RequestTimeout time.Duration `json:"request_timeout"`
}

// ServerInfo holds information about the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HTTPConfig holds the HTTP server configuration
type HTTPConfig struct {
	// Host to bind to
	Host string `json:"host"`

	// Port to listen on
	Port int `json:"port"`

	// Path for the streamable HTTP MCP endpoint
	MCPPath string `json:"mcp_path"`

	// Path for the backward compatible SSE endpoint
	SSEPath string `json:"sse_path"`

	// Path for the backward compatible POST endpoint
	MessagePath string `json:"message_path"`

	// CORS configuration
	CORS CORSConfig `json:"cors"`
}

// CORSConfig holds the CORS configuration
type CORSConfig struct {
	Enable           bool          `json:"enable"`
	AllowedOrigins   []string      `json:"allowed_origins"`
	AllowedHeaders   []string      `json:"allowed_headers"`
	ExposedHeaders   []string      `json:"exposed_headers"`
	AllowCredentials bool          `json:"allow_credentials"`
	MaxAge           time.Duration `json:"max_age"`
}

// SessionConfig holds the session configuration
type SessionConfig struct {
	// Session TTL (time to live)
	TTL time.Duration `json:"ttl"`

	// Whether to use the in-memory session store
	UseInMemory bool `json:"use_in_memory"`

	// Key prefix for session storage
	KeyPrefix string `json:"key_prefix"`
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	// Redis addresses (first one is used)
	Addresses []string `json:"addresses"`
	Password  string   `json:"password"`
	DB        int      `json:"db"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		RequestTimeout: 30 * time.Second,
		HTTP: HTTPConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			MCPPath:     "/mcp",
			SSEPath:     "/sse",
			MessagePath: "/messages",
			CORS: CORSConfig{
				Enable:           false,
				AllowedOrigins:   []string{"*"},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", protocol.SessionIDHeader},
				ExposedHeaders:   []string{protocol.SessionIDHeader},
				AllowCredentials: false,
				MaxAge:           300 * time.Second,
			},
		},
		Session: SessionConfig{
			TTL:         30 * time.Minute,
			UseInMemory: true,
			KeyPrefix:   "weather-bridge",
		},
		ServerInfo: ServerInfo{
			Name:    "weather-bridge",
			Version: "1.0.0",
		},
		ProtocolVersion:            string(protocol.ProtocolVersion20250326),
		BackwardCompatible20241105: true,
		ServerCapabilities: protocol.ServerCapabilities{
			Tools:     &protocol.ToolsServerCapability{},
			Prompts:   &protocol.PromptsServerCapability{},
			Resources: &protocol.ResourcesServerCapability{},
		},
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *ServerConfig {
	cfg := DefaultConfig()
	cfg.Redis = nil
	cfg.Session.UseInMemory = true
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}
