// Package resources implements the tool, resource and prompt registries an
// MCP server exposes. Registries are populated once at server construction
// and immutable for the server's lifetime.
package resources

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrToolNotFound  = errors.New("tool not found")
	ErrInvalidParams = errors.New("invalid parameters")
)

// listPageSize is the number of entries returned per page by the static
// registries.
const listPageSize = 20

// InputSchema represents the schema for tool inputs
type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty represents a property in an input schema
type SchemaProperty struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
}

// Tool represents an MCP tool definition
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema,omitempty"`
}

// ToolHandler is a function that handles a tool invocation
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ToolListOptions provides pagination options for listing tools
type ToolListOptions struct {
	Cursor string
}

// ToolListResult represents a paginated list of tools
type ToolListResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ToolRegistry defines the interface for a tool registry
type ToolRegistry interface {
	// GetTool returns a tool by name
	GetTool(ctx context.Context, name string) (Tool, bool)

	// ListTools returns a paginated list of tools
	ListTools(ctx context.Context, opts ToolListOptions) ToolListResult

	// CallTool invokes a tool with the given parameters
	CallTool(ctx context.Context, name string, params map[string]interface{}) (interface{}, error)
}

// FeatureRegistry bundles the registries for one server instance.
type FeatureRegistry struct {
	ToolRegistry     ToolRegistry
	PromptRegistry   PromptRegistry
	ResourceRegistry ResourceRegistry
}
