// Package client provides an MCP client supporting both the 2024-11-05 and
// 2025-03-26 specifications.
package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

// ErrNotSupported is returned by the typed feature calls when the server
// does not implement the corresponding method family. Callers treat it as a
// non-fatal condition.
var ErrNotSupported = errors.New("capability not supported by server")

// ConnectionMethod represents the transport method used for the MCP connection.
type ConnectionMethod string

const (
	// ConnectionMethodSSE represents a connection using Server-Sent Events.
	ConnectionMethodSSE ConnectionMethod = "sse"

	// ConnectionMethodHTTP represents a connection using direct HTTP requests.
	ConnectionMethodHTTP ConnectionMethod = "http"
)

// ClientOptions contains configuration options for the MCP client.
type ClientOptions struct {
	// ProtocolVersion specifies which MCP protocol version to use. With
	// ProtocolVersionAuto the client negotiates.
	ProtocolVersion protocol.ProtocolVersion

	// HTTPClient allows providing a custom HTTP client for the transport layer.
	HTTPClient *http.Client

	// ClientInfo contains information about the client, sent during
	// initialization.
	ClientInfo ClientInfo

	// RequestTimeout bounds every request round-trip, including tool calls
	// answered over SSE.
	RequestTimeout time.Duration
}

// ClientInfo contains information about the client.
type ClientInfo struct {
	Name    string
	Version string
}

// ReadResourceResult is the decoded payload of a resources/read call.
type ReadResourceResult struct {
	Contents []ResourceContent `json:"contents"`
}

// ResourceContent is one content entry of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     []byte `json:"blob,omitempty"`
}

// GetPromptResult is the decoded payload of a prompts/get call.
type GetPromptResult struct {
	Description string                    `json:"description,omitempty"`
	Messages    []resources.PromptMessage `json:"messages"`
}

// McpClient is the interface for an MCP client.
type McpClient interface {
	// Connect establishes a connection with the server and performs protocol
	// initialization.
	Connect(ctx context.Context) error

	// Close closes the client connection.
	Close(ctx context.Context) error

	// IsInitialized returns whether the client has been initialized.
	IsInitialized() bool

	// GetSessionID returns the current session ID, if any.
	GetSessionID() string

	// GetProtocolVersion returns the negotiated protocol version.
	GetProtocolVersion() protocol.ProtocolVersion

	// GetConnectionMethod returns the connection method being used.
	GetConnectionMethod() ConnectionMethod

	// SendRequest sends a request to the server and returns the response.
	SendRequest(ctx context.Context, method string, params interface{}) (*protocol.JSONRPCMessage, error)

	// SendNotification sends a notification to the server.
	SendNotification(ctx context.Context, method string, params interface{}) error

	// ListTools retrieves the list of available tools from the server.
	ListTools(ctx context.Context) (*resources.ToolListResult, error)

	// FindTool looks up a tool by name, returning an error when no such
	// tool is exposed.
	FindTool(ctx context.Context, toolName string) (*resources.Tool, error)

	// CallTool calls a tool by name with the given arguments.
	CallTool(ctx context.Context, toolName string, args map[string]interface{}) (*protocol.CallToolResult, error)

	// ListResources retrieves the resource list. Returns ErrNotSupported
	// when the server has no resource support.
	ListResources(ctx context.Context) (*resources.ResourceListResult, error)

	// ReadResource reads a resource by URI.
	ReadResource(ctx context.Context, uri string) (*ReadResourceResult, error)

	// ListPrompts retrieves the prompt list. Returns ErrNotSupported when
	// the server has no prompt support.
	ListPrompts(ctx context.Context) (*resources.PromptListResult, error)

	// GetPrompt fetches and processes a prompt by name.
	GetPrompt(ctx context.Context, name string, args map[string]string) (*GetPromptResult, error)
}

// DefaultClientOptions returns the default client options.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		ProtocolVersion: protocol.ProtocolVersionAuto,
		ClientInfo: ClientInfo{
			Name:    "weather-bridge-client",
			Version: "1.0.0",
		},
		RequestTimeout: 30 * time.Second,
	}
}

// NewMcpClient creates a new MCP client for the given server URL.
func NewMcpClient(serverURL string, options ClientOptions) (McpClient, error) {
	return newHTTPClient(serverURL, options)
}
