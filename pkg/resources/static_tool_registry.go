package resources

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// StaticToolRegistry holds a fixed set of tools keyed by name.
type StaticToolRegistry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	handlers map[string]ToolHandler
}

// NewStaticToolRegistry creates a new static tool registry
func NewStaticToolRegistry() *StaticToolRegistry {
	return &StaticToolRegistry{
		tools:    make(map[string]Tool),
		handlers: make(map[string]ToolHandler),
	}
}

// RegisterTool registers a tool and its handler. Duplicate names are
// rejected; tool names are unique within a server.
func (r *StaticToolRegistry) RegisterTool(tool Tool, handler ToolHandler) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool with name %q already exists", tool.Name)
	}

	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler

	slog.Debug("Registered tool", "name", tool.Name)
	return nil
}

// GetTool returns a tool by name
func (r *StaticToolRegistry) GetTool(ctx context.Context, name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// ListTools returns a paginated list of tools sorted by name.
func (r *StaticToolRegistry) ListTools(ctx context.Context, opts ToolListOptions) ToolListResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	startPos := 0
	if opts.Cursor != "" {
		for i, name := range names {
			if name == opts.Cursor {
				startPos = i + 1
				break
			}
		}
	}

	endPos := startPos + listPageSize
	if endPos > len(names) {
		endPos = len(names)
	}

	var result ToolListResult
	if startPos >= len(names) {
		return result
	}

	result.Tools = make([]Tool, 0, endPos-startPos)
	for i := startPos; i < endPos; i++ {
		result.Tools = append(result.Tools, r.tools[names[i]])
	}

	if endPos < len(names) {
		result.NextCursor = names[endPos-1]
	}

	return result
}

// CallTool validates the parameters against the tool's schema and invokes
// the handler. Schema violations are ErrInvalidParams; provider-level "no
// data" conditions never surface here, handlers map them to text blocks.
func (r *StaticToolRegistry) CallTool(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	r.mu.RLock()
	tool, toolExists := r.tools[name]
	handler, handlerExists := r.handlers[name]
	r.mu.RUnlock()

	if !toolExists || !handlerExists {
		return nil, ErrToolNotFound
	}

	if params == nil {
		params = make(map[string]interface{})
	}

	for _, requiredParam := range tool.InputSchema.Required {
		if _, exists := params[requiredParam]; !exists {
			return nil, fmt.Errorf("%w: missing required parameter %s", ErrInvalidParams, requiredParam)
		}
	}

	for paramName, propSchema := range tool.InputSchema.Properties {
		val, exists := params[paramName]
		if !exists {
			if propSchema.Default != nil {
				params[paramName] = propSchema.Default
			}
			continue
		}
		if num, ok := toNumber(val); ok {
			if propSchema.Minimum != nil && num < *propSchema.Minimum {
				return nil, fmt.Errorf("%w: parameter %s below minimum %v", ErrInvalidParams, paramName, *propSchema.Minimum)
			}
			if propSchema.Maximum != nil && num > *propSchema.Maximum {
				return nil, fmt.Errorf("%w: parameter %s above maximum %v", ErrInvalidParams, paramName, *propSchema.Maximum)
			}
		}
	}

	return handler(ctx, params)
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

var _ ToolRegistry = (*StaticToolRegistry)(nil)
