package executors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
	"github.com/traego/weather-bridge/pkg/utils"
)

type ToolExecutor struct {
	serverInfo config.McpServerInfo
}

func NewToolExecutor(serverInfo config.McpServerInfo) *ToolExecutor {
	return &ToolExecutor{serverInfo: serverInfo}
}

func (t *ToolExecutor) CanHandleMethod(method string) bool {
	switch method {
	case "tools/list", "tools/get", "tools/call":
		return true
	default:
		return false
	}
}

func (t *ToolExecutor) HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	registry := t.serverInfo.GetFeatureRegistry().ToolRegistry
	if err := CheckFeature(registry != nil, method, req.ID); err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	params, err := ParseParams(req)
	if err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	var result interface{}

	switch method {
	case "tools/list":
		result, err = t.handleListTools(ctx, registry, params)
	case "tools/get":
		result, err = t.handleGetTool(ctx, registry, params)
	case "tools/call":
		result, err = t.handleCallTool(ctx, registry, params)
	default:
		return protocol.JSONRPCMessage{}, protocol.NewMethodNotFoundError(method, req.ID)
	}

	if err != nil {
		return protocol.JSONRPCMessage{}, toJSONRPCError(err, req.ID)
	}

	return protocol.NewResponse(req.ID, result), nil
}

func (t *ToolExecutor) handleListTools(ctx context.Context, registry resources.ToolRegistry, params map[string]interface{}) (resources.ToolListResult, error) {
	var cursor string
	if cursorVal, ok := params["cursor"]; ok {
		if cursorStr, ok := cursorVal.(string); ok {
			cursor = cursorStr
		}
	}

	return registry.ListTools(ctx, resources.ToolListOptions{Cursor: cursor}), nil
}

func (t *ToolExecutor) handleGetTool(ctx context.Context, registry resources.ToolRegistry, params map[string]interface{}) (resources.Tool, error) {
	name, err := requiredName(params)
	if err != nil {
		return resources.Tool{}, err
	}

	tool, found := registry.GetTool(ctx, name)
	if !found {
		return resources.Tool{}, fmt.Errorf("%w: tool '%s' not found", resources.ErrToolNotFound, name)
	}
	return tool, nil
}

func (t *ToolExecutor) handleCallTool(ctx context.Context, registry resources.ToolRegistry, params map[string]interface{}) (interface{}, error) {
	name, err := requiredName(params)
	if err != nil {
		return nil, err
	}

	var toolArgs map[string]interface{}
	if args, ok := params["arguments"]; ok {
		if p, ok := args.(map[string]interface{}); ok {
			toolArgs = p
		} else {
			return nil, fmt.Errorf("%w: arguments must be an object", resources.ErrInvalidParams)
		}
	} else {
		toolArgs = make(map[string]interface{})
	}

	slog.DebugContext(ctx, "Calling tool",
		"tool", name, "session_id", utils.GetSessionID(ctx))

	out, err := registry.CallTool(ctx, name, toolArgs)
	if err != nil {
		return nil, err
	}
	return wrapToolResult(out), nil
}

// wrapToolResult converts a handler's return value into the content-block
// shape the wire expects. Handlers typically return plain text.
func wrapToolResult(out interface{}) protocol.CallToolResult {
	switch v := out.(type) {
	case protocol.CallToolResult:
		return v
	case *protocol.CallToolResult:
		return *v
	case string:
		return protocol.CallToolResult{Content: []protocol.Content{protocol.NewTextContent(v)}}
	default:
		return protocol.CallToolResult{Content: []protocol.Content{protocol.NewTextContent(fmt.Sprintf("%v", v))}}
	}
}

func requiredName(params map[string]interface{}) (string, error) {
	nameVal, ok := params["name"]
	if !ok {
		return "", fmt.Errorf("%w: name is required", resources.ErrInvalidParams)
	}
	name, ok := nameVal.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("%w: name must be a non-empty string", resources.ErrInvalidParams)
	}
	return name, nil
}

var _ config.MethodHandler = (*ToolExecutor)(nil)
