// Package aggregator merges the tool and resource catalogs of several
// independent MCP connections into one namespace for a single LLM
// completion call, and routes the model's tool calls back to the
// connection that owns each tool.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/traego/weather-bridge/pkg/client"
	"github.com/traego/weather-bridge/pkg/llm"
	"github.com/traego/weather-bridge/pkg/resources"
)

// NamespaceSeparator joins a connection id and a tool name into the name
// exposed to the completion call. Connection ids must not contain it.
const NamespaceSeparator = "__"

// apology is the fixed user-facing text for any failure inside
// ProcessQuery. The underlying error is logged, never shown.
const apology = "Sorry, I was unable to answer that. Please try again."

// ErrAmbiguousTool is returned when a bare tool name matches tools on more
// than one connection.
var ErrAmbiguousTool = errors.New("tool name is ambiguous across connections")

// ErrUnknownTool is returned when no catalog entry matches a dispatched name.
var ErrUnknownTool = errors.New("tool not found in aggregated catalog")

// Connection binds one MCP server to the aggregator. Exactly one transport
// per connection; a connection is never re-pointed at another URL.
type Connection struct {
	ID     string
	Client client.McpClient
}

// NewConnection creates a connection with the given identifier.
func NewConnection(id string, mcpClient client.McpClient) *Connection {
	return &Connection{ID: id, Client: mcpClient}
}

// ToolEntry is one tool in the merged catalog, tagged with its source
// connection. Entries are keyed by (source, name); duplicates across
// sources are preserved, never shadowed.
type ToolEntry struct {
	Source string
	Tool   resources.Tool
	conn   *Connection
}

// ExposedName is the namespaced name offered to the completion call.
func (e ToolEntry) ExposedName() string {
	return e.Source + NamespaceSeparator + e.Tool.Name
}

// ResourceEntry is one resource in the merged catalog.
type ResourceEntry struct {
	Source   string
	Resource resources.Resource
	conn     *Connection
}

// Aggregator fans out to N independently-connected MCP servers and merges
// their catalogs. The catalog and conversation history are guarded by mu;
// each ProcessQuery call is serial with respect to its own history.
type Aggregator struct {
	provider    llm.Provider
	connections []*Connection

	mu            sync.RWMutex
	tools         []ToolEntry
	resourceList  []ResourceEntry
	history       []llm.Message
	systemLoaded  bool
	datasetLoaded bool
}

// New creates an aggregator over the given connections. Initialize must be
// called before queries are processed.
func New(provider llm.Provider, connections ...*Connection) *Aggregator {
	return &Aggregator{
		provider:    provider,
		connections: connections,
	}
}

// Initialize connects every connection and merges its tool and resource
// lists into the catalog. Failures are isolated per connection: one
// server's failure is logged and the rest are still aggregated. A server
// without resource support is a non-fatal, logged condition.
func (a *Aggregator) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, conn := range a.connections {
		if !conn.Client.IsInitialized() {
			if err := conn.Client.Connect(ctx); err != nil {
				slog.Error("failed to connect to server, skipping",
					"source", conn.ID, "error", err)
				continue
			}
		}

		toolsList, err := conn.Client.ListTools(ctx)
		if err != nil {
			slog.Error("failed to list tools, skipping connection",
				"source", conn.ID, "error", err)
			continue
		}
		for _, tool := range toolsList.Tools {
			a.tools = append(a.tools, ToolEntry{Source: conn.ID, Tool: tool, conn: conn})
		}

		resourceList, err := conn.Client.ListResources(ctx)
		switch {
		case errors.Is(err, client.ErrNotSupported):
			slog.Debug("server does not support resources", "source", conn.ID)
		case err != nil:
			slog.Warn("failed to list resources", "source", conn.ID, "error", err)
		default:
			for _, resource := range resourceList.Resources {
				a.resourceList = append(a.resourceList, ResourceEntry{
					Source:   conn.ID,
					Resource: resource,
					conn:     conn,
				})
			}
		}

		slog.Info("aggregated server catalog",
			"source", conn.ID,
			"tools", len(toolsList.Tools))
	}
	return nil
}

// GetAllTools returns a copy of the merged tool catalog.
func (a *Aggregator) GetAllTools() []ToolEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]ToolEntry, len(a.tools))
	copy(out, a.tools)
	return out
}

// GetAllResources returns a copy of the merged resource catalog.
func (a *Aggregator) GetAllResources() []ResourceEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]ResourceEntry, len(a.resourceList))
	copy(out, a.resourceList)
	return out
}

// Dispatch routes a tool call to the connection that owns the tool. A
// namespaced name resolves directly; a bare name resolves only when exactly
// one connection exposes it. The result's content blocks are flattened to
// one text string.
func (a *Aggregator) Dispatch(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	entry, err := a.resolve(name)
	if err != nil {
		return "", err
	}

	result, err := entry.conn.Client.CallTool(ctx, entry.Tool.Name, args)
	if err != nil {
		return "", fmt.Errorf("tool call %s on %s failed: %w", entry.Tool.Name, entry.Source, err)
	}
	return result.JoinText(), nil
}

func (a *Aggregator) resolve(name string) (ToolEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolveLocked(name)
}

func (a *Aggregator) resolveLocked(name string) (ToolEntry, error) {
	if parts := strings.SplitN(name, NamespaceSeparator, 2); len(parts) == 2 {
		for _, entry := range a.tools {
			if entry.Source == parts[0] && entry.Tool.Name == parts[1] {
				return entry, nil
			}
		}
	}

	var matches []ToolEntry
	for _, entry := range a.tools {
		if entry.Tool.Name == name {
			matches = append(matches, entry)
		}
	}
	switch len(matches) {
	case 0:
		return ToolEntry{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	case 1:
		return matches[0], nil
	default:
		sources := make([]string, 0, len(matches))
		for _, m := range matches {
			sources = append(sources, m.Source)
		}
		return ToolEntry{}, fmt.Errorf("%w: %s exposed by %s", ErrAmbiguousTool, name, strings.Join(sources, ", "))
	}
}

// ProcessQuery runs one full query cycle: prompt discovery, dataset
// inlining, a completion with the merged tool catalog, dispatch of every
// requested tool call, and a final completion without tools. The
// conversation history is retained across calls. Any failure is logged in
// full and converted to a fixed apology string.
func (a *Aggregator) ProcessQuery(ctx context.Context, query string) string {
	answer, err := a.processQuery(ctx, query)
	if err != nil {
		slog.Error("query processing failed", "error", err)
		return apology
	}
	return answer
}

func (a *Aggregator) processQuery(ctx context.Context, query string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.systemLoaded {
		a.systemLoaded = true
		if prompt := a.discoverSystemPrompt(ctx); prompt != "" {
			a.history = append(a.history, llm.Message{Role: llm.RoleSystem, Content: prompt})
		}
	}

	if !a.datasetLoaded {
		a.datasetLoaded = true
		if dataset := a.discoverDataset(ctx); dataset != "" {
			query = query + "\n\nKnown cities dataset:\n" + dataset
		}
	}

	a.history = append(a.history, llm.Message{Role: llm.RoleUser, Content: query})

	toolDefs := make([]llm.ToolDef, 0, len(a.tools))
	for _, entry := range a.tools {
		toolDefs = append(toolDefs, llm.ToolDef{
			Name:        entry.ExposedName(),
			Description: entry.Tool.Description,
			Parameters:  entry.Tool.InputSchema,
		})
	}

	first, err := a.provider.Chat(ctx, a.history, toolDefs)
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	a.history = append(a.history, first.Message)

	for _, call := range first.Message.ToolCalls {
		text, err := a.dispatchLocked(ctx, call.Name, call.Arguments)
		if err != nil {
			return "", err
		}
		a.history = append(a.history, llm.Message{Role: llm.RoleTool, Content: text})
	}

	segments := make([]string, 0, 2)
	if first.Message.Content != "" {
		segments = append(segments, first.Message.Content)
	}

	if len(first.Message.ToolCalls) > 0 {
		// No tools on the follow-up call, forcing a terminal answer
		// instead of another round of tool calls.
		final, err := a.provider.Chat(ctx, a.history, nil)
		if err != nil {
			return "", fmt.Errorf("final completion call failed: %w", err)
		}
		a.history = append(a.history, final.Message)
		if final.Message.Content != "" {
			segments = append(segments, final.Message.Content)
		}
	}

	return strings.Join(segments, "\n"), nil
}

// dispatchLocked is Dispatch without re-acquiring the catalog lock.
func (a *Aggregator) dispatchLocked(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	entry, err := a.resolveLocked(name)
	if err != nil {
		return "", err
	}

	result, err := entry.conn.Client.CallTool(ctx, entry.Tool.Name, args)
	if err != nil {
		return "", fmt.Errorf("tool call %s on %s failed: %w", entry.Tool.Name, entry.Source, err)
	}
	return result.JoinText(), nil
}

// discoverSystemPrompt asks each connection in turn for its first prompt.
// The first connection that has one wins; prompts are never merged.
func (a *Aggregator) discoverSystemPrompt(ctx context.Context) string {
	for _, conn := range a.connections {
		promptList, err := conn.Client.ListPrompts(ctx)
		if err != nil || len(promptList.Prompts) == 0 {
			continue
		}

		prompt, err := conn.Client.GetPrompt(ctx, promptList.Prompts[0].Name, nil)
		if err != nil {
			slog.Warn("failed to fetch prompt", "source", conn.ID, "error", err)
			continue
		}

		parts := make([]string, 0, len(prompt.Messages))
		for _, msg := range prompt.Messages {
			if text, ok := msg.Content.(string); ok && text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			slog.Info("using system prompt", "source", conn.ID, "prompt", promptList.Prompts[0].Name)
			return strings.Join(parts, "\n")
		}
	}
	return ""
}

// discoverDataset looks for the bundled cities dataset across connections,
// first match wins, and returns its full text content.
func (a *Aggregator) discoverDataset(ctx context.Context) string {
	for _, entry := range a.resourceList {
		if !strings.Contains(entry.Resource.URI, "cities") {
			continue
		}

		result, err := entry.conn.Client.ReadResource(ctx, entry.Resource.URI)
		if err != nil {
			slog.Warn("failed to read dataset resource",
				"source", entry.Source, "uri", entry.Resource.URI, "error", err)
			continue
		}
		for _, content := range result.Contents {
			if content.Text != "" {
				slog.Info("inlining dataset resource",
					"source", entry.Source, "uri", entry.Resource.URI)
				return content.Text
			}
		}
	}
	return ""
}

// Close closes every connection, best effort.
func (a *Aggregator) Close(ctx context.Context) {
	for _, conn := range a.connections {
		if err := conn.Client.Close(ctx); err != nil {
			slog.Warn("failed to close connection", "source", conn.ID, "error", err)
		}
	}
}
