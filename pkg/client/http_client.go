package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

const (
	mcpEndpointPath = "/mcp"
	sseEndpointPath = "/sse"
)

// httpClient implements the McpClient interface over HTTP. For the
// 2025-03-26 spec it talks to the streamable /mcp endpoint directly; for
// 2024-11-05 it holds an SSE stream open and posts to the endpoint the
// server advertises.
type httpClient struct {
	serverURL  string
	options    ClientOptions
	httpClient *http.Client

	sessionID      string
	sessionIdMutex sync.RWMutex

	protocolVersion  protocol.ProtocolVersion
	connectionMethod ConnectionMethod
	initialized      atomic.Bool

	// responseMap routes SSE-delivered responses back to the request that
	// is waiting for them, keyed by request id.
	responseMap   map[string]chan *protocol.JSONRPCMessage
	responseMutex sync.Mutex

	// messageEndpoint is the POST target advertised by the 2024-11-05
	// endpoint event.
	messageEndpoint string
	endpointMutex   sync.RWMutex
	endpointReady   chan struct{}

	sseCancel context.CancelFunc
	sseDone   chan struct{}

	requestCounter atomic.Int64
	idPrefix       string
}

func newHTTPClient(serverURL string, options ClientOptions) (*httpClient, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server URL must not be empty")
	}
	if _, err := url.Parse(serverURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	hc := options.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if options.RequestTimeout <= 0 {
		options.RequestTimeout = DefaultClientOptions().RequestTimeout
	}

	return &httpClient{
		serverURL:     serverURL,
		options:       options,
		httpClient:    hc,
		responseMap:   make(map[string]chan *protocol.JSONRPCMessage),
		endpointReady: make(chan struct{}),
		idPrefix:      uuid.New().String()[:8],
	}, nil
}

// Connect establishes a connection and performs the initialize handshake.
// With ProtocolVersionAuto it tries the streamable transport first and falls
// back to the 2024-11-05 SSE transport when the server answers 404.
func (c *httpClient) Connect(ctx context.Context) error {
	if c.initialized.Load() {
		return nil
	}

	switch c.options.ProtocolVersion {
	case protocol.ProtocolVersion20241105:
		return c.connectSSE(ctx)
	case protocol.ProtocolVersion20250326:
		return c.connectStreamable(ctx, false)
	default:
		return c.connectStreamable(ctx, true)
	}
}

func (c *httpClient) connectStreamable(ctx context.Context, fallback bool) error {
	c.connectionMethod = ConnectionMethodHTTP
	c.protocolVersion = protocol.ProtocolVersion20250326

	resp, err := c.SendRequest(ctx, "initialize", protocol.InitializeParams{
		ProtocolVersion: string(protocol.ProtocolVersion20250326),
		ClientInfo: protocol.ClientInfo{
			Name:    c.options.ClientInfo.Name,
			Version: c.options.ClientInfo.Version,
		},
	})
	if err != nil {
		if fallback && isEndpointMissing(err) {
			slog.Debug("streamable endpoint not found, falling back to 2024-11-05 transport",
				"server_url", c.serverURL)
			return c.connectSSE(ctx)
		}
		return fmt.Errorf("initialize failed: %w", err)
	}

	var result protocol.InitializeResult
	if err := decodeResult(resp, &result); err != nil {
		return fmt.Errorf("failed to decode initialize result: %w", err)
	}
	if result.ProtocolVersion != "" {
		c.protocolVersion = protocol.ProtocolVersion(result.ProtocolVersion)
	}

	c.initialized.Store(true)
	if err := c.SendNotification(ctx, "notifications/initialized", nil); err != nil {
		slog.Warn("failed to send initialized notification", "error", err)
	}
	return nil
}

func (c *httpClient) connectSSE(ctx context.Context) error {
	c.connectionMethod = ConnectionMethodSSE
	c.protocolVersion = protocol.ProtocolVersion20241105

	if err := c.setupSSE(ctx); err != nil {
		return fmt.Errorf("failed to open SSE stream: %w", err)
	}

	// The server sends the message endpoint as the first event on the
	// stream. Nothing can be posted before it arrives.
	select {
	case <-c.endpointReady:
	case <-time.After(c.options.RequestTimeout):
		c.teardownSSE()
		return fmt.Errorf("timed out waiting for endpoint event")
	case <-ctx.Done():
		c.teardownSSE()
		return ctx.Err()
	}

	resp, err := c.SendRequest(ctx, "initialize", protocol.InitializeParams{
		ProtocolVersion: string(protocol.ProtocolVersion20241105),
		ClientInfo: protocol.ClientInfo{
			Name:    c.options.ClientInfo.Name,
			Version: c.options.ClientInfo.Version,
		},
	})
	if err != nil {
		c.teardownSSE()
		return fmt.Errorf("initialize failed: %w", err)
	}

	var result protocol.InitializeResult
	if err := decodeResult(resp, &result); err != nil {
		c.teardownSSE()
		return fmt.Errorf("failed to decode initialize result: %w", err)
	}

	c.initialized.Store(true)
	if err := c.SendNotification(ctx, "notifications/initialized", nil); err != nil {
		slog.Warn("failed to send initialized notification", "error", err)
	}
	return nil
}

// setupSSE opens the event stream and starts routing incoming events.
func (c *httpClient) setupSSE(ctx context.Context) error {
	sseCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.sseCancel = cancel
	c.sseDone = make(chan struct{})

	req, err := http.NewRequestWithContext(sseCtx, http.MethodGet, c.serverURL+sseEndpointPath, nil)
	if err != nil {
		cancel()
		return err
	}

	conn := sse.NewConnection(req)
	conn.SubscribeToAll(func(event sse.Event) {
		switch event.Type {
		case "endpoint":
			c.handleEndpointEvent(event.Data)
		default:
			c.handleMessageEvent(event.Data)
		}
	})

	go func() {
		defer close(c.sseDone)
		if err := conn.Connect(); err != nil && sseCtx.Err() == nil {
			slog.Error("sse connection terminated", "error", err)
		}
	}()
	return nil
}

func (c *httpClient) handleEndpointEvent(data string) {
	base, err := url.Parse(c.serverURL)
	if err != nil {
		slog.Error("invalid server URL for endpoint resolution", "error", err)
		return
	}
	endpoint, err := url.Parse(data)
	if err != nil {
		slog.Error("invalid endpoint event payload", "payload", data, "error", err)
		return
	}
	resolved := base.ResolveReference(endpoint)

	c.endpointMutex.Lock()
	first := c.messageEndpoint == ""
	c.messageEndpoint = resolved.String()
	c.endpointMutex.Unlock()

	if sessionID := endpoint.Query().Get("sessionId"); sessionID != "" {
		c.setSessionID(sessionID)
	}
	if first {
		close(c.endpointReady)
	}
}

func (c *httpClient) handleMessageEvent(data string) {
	var msg protocol.JSONRPCMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		slog.Warn("failed to parse sse message event", "error", err)
		return
	}
	if msg.ID == nil {
		// Server-initiated notification, nothing is waiting for it.
		slog.Debug("received server notification", "method", msg.Method)
		return
	}

	id := fmt.Sprintf("%v", msg.ID)
	c.responseMutex.Lock()
	ch, ok := c.responseMap[id]
	if ok {
		delete(c.responseMap, id)
	}
	c.responseMutex.Unlock()
	if !ok {
		slog.Debug("received response for unknown request", "id", id)
		return
	}
	ch <- &msg
}

func (c *httpClient) teardownSSE() {
	if c.sseCancel != nil {
		c.sseCancel()
		if c.sseDone != nil {
			<-c.sseDone
		}
		c.sseCancel = nil
	}
}

// Close terminates the session. On the streamable transport this sends a
// DELETE so the server can drop session state.
func (c *httpClient) Close(ctx context.Context) error {
	defer c.initialized.Store(false)

	if c.connectionMethod == ConnectionMethodHTTP {
		if sessionID := c.GetSessionID(); sessionID != "" {
			req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.serverURL+mcpEndpointPath, nil)
			if err != nil {
				return err
			}
			req.Header.Set(protocol.SessionIDHeader, sessionID)
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			_ = resp.Body.Close()
		}
	}

	c.teardownSSE()
	return nil
}

func (c *httpClient) IsInitialized() bool {
	return c.initialized.Load()
}

func (c *httpClient) GetSessionID() string {
	c.sessionIdMutex.RLock()
	defer c.sessionIdMutex.RUnlock()
	return c.sessionID
}

func (c *httpClient) setSessionID(sessionID string) {
	c.sessionIdMutex.Lock()
	defer c.sessionIdMutex.Unlock()
	c.sessionID = sessionID
}

func (c *httpClient) GetProtocolVersion() protocol.ProtocolVersion {
	return c.protocolVersion
}

func (c *httpClient) GetConnectionMethod() ConnectionMethod {
	return c.connectionMethod
}

// generateRequestID creates a request id that is unique per client instance.
func (c *httpClient) generateRequestID() string {
	return fmt.Sprintf("%s-%d", c.idPrefix, c.requestCounter.Add(1))
}

// SendRequest sends a request and waits for its response. Every call is
// bounded by the configured request timeout.
func (c *httpClient) SendRequest(ctx context.Context, method string, params interface{}) (*protocol.JSONRPCMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.options.RequestTimeout)
	defer cancel()

	id := c.generateRequestID()
	msg := protocol.NewRequest(id, method, params)

	if c.connectionMethod == ConnectionMethodSSE {
		return c.sendViaSSE(ctx, id, msg)
	}
	return c.sendViaHTTP(ctx, method, msg)
}

func (c *httpClient) sendViaHTTP(ctx context.Context, method string, msg protocol.JSONRPCMessage) (*protocol.JSONRPCMessage, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+mcpEndpointPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if sessionID := c.GetSessionID(); sessionID != "" {
		req.Header.Set(protocol.SessionIDHeader, sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound && method == "initialize" {
		return nil, errEndpointMissing
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	if method == "initialize" {
		if sessionID := resp.Header.Get(protocol.SessionIDHeader); sessionID != "" {
			c.setSessionID(sessionID)
		}
	}

	var response protocol.JSONRPCMessage
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcErr := extractJSONRPCError(&response); rpcErr != nil {
		return nil, rpcErr
	}
	return &response, nil
}

func (c *httpClient) sendViaSSE(ctx context.Context, id string, msg protocol.JSONRPCMessage) (*protocol.JSONRPCMessage, error) {
	c.endpointMutex.RLock()
	endpoint := c.messageEndpoint
	c.endpointMutex.RUnlock()
	if endpoint == "" {
		return nil, fmt.Errorf("no message endpoint received yet")
	}

	respCh := make(chan *protocol.JSONRPCMessage, 1)
	c.responseMutex.Lock()
	c.responseMap[id] = respCh
	c.responseMutex.Unlock()
	defer func() {
		c.responseMutex.Lock()
		delete(c.responseMap, id)
		c.responseMutex.Unlock()
	}()

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d posting message", resp.StatusCode)
	}

	select {
	case response := <-respCh:
		if rpcErr := extractJSONRPCError(response); rpcErr != nil {
			return nil, rpcErr
		}
		return response, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("timed out waiting for response to %s: %w", msg.Method, ctx.Err())
	}
}

// SendNotification sends a notification; no response is expected.
func (c *httpClient) SendNotification(ctx context.Context, method string, params interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.options.RequestTimeout)
	defer cancel()

	msg := protocol.JSONRPCMessage{JSONRPC: "2.0", Method: method, Params: params}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	target := c.serverURL + mcpEndpointPath
	if c.connectionMethod == ConnectionMethodSSE {
		c.endpointMutex.RLock()
		target = c.messageEndpoint
		c.endpointMutex.RUnlock()
		if target == "" {
			return fmt.Errorf("no message endpoint received yet")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.connectionMethod == ConnectionMethodHTTP {
		if sessionID := c.GetSessionID(); sessionID != "" {
			req.Header.Set(protocol.SessionIDHeader, sessionID)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d sending notification", resp.StatusCode)
	}
	return nil
}

// ListTools retrieves the tool list from the server.
func (c *httpClient) ListTools(ctx context.Context) (*resources.ToolListResult, error) {
	resp, err := c.SendRequest(ctx, "tools/list", map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	var result resources.ToolListResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode tool list: %w", err)
	}
	return &result, nil
}

// FindTool walks the paginated tool list looking for a tool by name.
func (c *httpClient) FindTool(ctx context.Context, toolName string) (*resources.Tool, error) {
	cursor := ""
	for {
		params := map[string]interface{}{}
		if cursor != "" {
			params["cursor"] = cursor
		}
		resp, err := c.SendRequest(ctx, "tools/list", params)
		if err != nil {
			return nil, err
		}
		var page resources.ToolListResult
		if err := decodeResult(resp, &page); err != nil {
			return nil, fmt.Errorf("failed to decode tool list: %w", err)
		}
		for i := range page.Tools {
			if page.Tools[i].Name == toolName {
				return &page.Tools[i], nil
			}
		}
		if page.NextCursor == "" {
			return nil, fmt.Errorf("tool not found: %s", toolName)
		}
		cursor = page.NextCursor
	}
}

// CallTool calls a tool by name with the given arguments.
func (c *httpClient) CallTool(ctx context.Context, toolName string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	resp, err := c.SendRequest(ctx, "tools/call", map[string]interface{}{
		"name":      toolName,
		"arguments": args,
	})
	if err != nil {
		return nil, err
	}
	var result protocol.CallToolResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode tool result: %w", err)
	}
	return &result, nil
}

// ListResources retrieves the resource list. Servers without resource
// support yield ErrNotSupported.
func (c *httpClient) ListResources(ctx context.Context) (*resources.ResourceListResult, error) {
	resp, err := c.SendRequest(ctx, "resources/list", map[string]interface{}{})
	if err != nil {
		return nil, mapNotSupported(err)
	}
	var result resources.ResourceListResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode resource list: %w", err)
	}
	return &result, nil
}

// ReadResource reads a resource by URI.
func (c *httpClient) ReadResource(ctx context.Context, uri string) (*ReadResourceResult, error) {
	resp, err := c.SendRequest(ctx, "resources/read", map[string]interface{}{"uri": uri})
	if err != nil {
		return nil, mapNotSupported(err)
	}
	var result ReadResourceResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode resource contents: %w", err)
	}
	return &result, nil
}

// ListPrompts retrieves the prompt list. Servers without prompt support
// yield ErrNotSupported.
func (c *httpClient) ListPrompts(ctx context.Context) (*resources.PromptListResult, error) {
	resp, err := c.SendRequest(ctx, "prompts/list", map[string]interface{}{})
	if err != nil {
		return nil, mapNotSupported(err)
	}
	var result resources.PromptListResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode prompt list: %w", err)
	}
	return &result, nil
}

// GetPrompt fetches and processes a prompt by name.
func (c *httpClient) GetPrompt(ctx context.Context, name string, args map[string]string) (*GetPromptResult, error) {
	params := map[string]interface{}{"name": name}
	if len(args) > 0 {
		params["arguments"] = args
	}
	resp, err := c.SendRequest(ctx, "prompts/get", params)
	if err != nil {
		return nil, mapNotSupported(err)
	}
	var result GetPromptResult
	if err := decodeResult(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode prompt: %w", err)
	}
	return &result, nil
}

// errEndpointMissing marks a 404 on the streamable endpoint so Connect can
// fall back to the 2024-11-05 transport.
var errEndpointMissing = errors.New("streamable endpoint not found")

func isEndpointMissing(err error) bool {
	return errors.Is(err, errEndpointMissing)
}

// mapNotSupported converts a method-not-found error into ErrNotSupported.
func mapNotSupported(err error) error {
	var rpcErr *protocol.JsonRpcError
	if errors.As(err, &rpcErr) && rpcErr.Code == protocol.ErrMethodNotFound {
		return fmt.Errorf("%w: %s", ErrNotSupported, rpcErr.Message)
	}
	return err
}

// decodeResult re-marshals a response result into a typed value.
func decodeResult(resp *protocol.JSONRPCMessage, out interface{}) error {
	data, err := json.Marshal(resp.Result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// extractJSONRPCError converts the error member of a response, if present,
// into a JsonRpcError.
func extractJSONRPCError(msg *protocol.JSONRPCMessage) *protocol.JsonRpcError {
	if msg.Error == nil {
		return nil
	}
	data, err := json.Marshal(msg.Error)
	if err != nil {
		return protocol.NewInternalError("unparseable error member", msg.ID)
	}
	var rpcErr protocol.JsonRpcError
	if err := json.Unmarshal(data, &rpcErr); err != nil {
		return protocol.NewInternalError("unparseable error member", msg.ID)
	}
	rpcErr.ID = msg.ID
	return &rpcErr
}
