package executors

import (
	"context"
	"fmt"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

type PromptExecutor struct {
	serverInfo config.McpServerInfo
}

func NewPromptExecutor(serverInfo config.McpServerInfo) *PromptExecutor {
	return &PromptExecutor{serverInfo: serverInfo}
}

func (p *PromptExecutor) CanHandleMethod(method string) bool {
	switch method {
	case "prompts/list", "prompts/get":
		return true
	default:
		return false
	}
}

func (p *PromptExecutor) HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	registry := p.serverInfo.GetFeatureRegistry().PromptRegistry
	if err := CheckFeature(registry != nil, method, req.ID); err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	params, err := ParseParams(req)
	if err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	var result interface{}

	switch method {
	case "prompts/list":
		result, err = p.handleListPrompts(ctx, registry, params)
	case "prompts/get":
		result, err = p.handleGetPrompt(ctx, registry, params)
	default:
		return protocol.JSONRPCMessage{}, protocol.NewMethodNotFoundError(method, req.ID)
	}

	if err != nil {
		return protocol.JSONRPCMessage{}, toJSONRPCError(err, req.ID)
	}

	return protocol.NewResponse(req.ID, result), nil
}

func (p *PromptExecutor) handleListPrompts(ctx context.Context, registry resources.PromptRegistry, params map[string]interface{}) (resources.PromptListResult, error) {
	var cursor string
	if cursorVal, ok := params["cursor"]; ok {
		if cursorStr, ok := cursorVal.(string); ok {
			cursor = cursorStr
		}
	}

	return registry.ListPrompts(ctx, resources.PromptListOptions{Cursor: cursor}), nil
}

func (p *PromptExecutor) handleGetPrompt(ctx context.Context, registry resources.PromptRegistry, params map[string]interface{}) (interface{}, error) {
	name, err := requiredName(params)
	if err != nil {
		return nil, err
	}

	prompt, found := registry.GetPrompt(ctx, name)
	if !found {
		return nil, fmt.Errorf("%w: prompt '%s' not found", resources.ErrPromptNotFound, name)
	}

	arguments := make(map[string]string)
	if args, ok := params["arguments"].(map[string]interface{}); ok {
		for k, v := range args {
			if s, ok := v.(string); ok {
				arguments[k] = s
			}
		}
	}

	messages, err := registry.ProcessPrompt(ctx, name, arguments)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"description": prompt.Description,
		"messages":    messages,
	}, nil
}

var _ config.MethodHandler = (*PromptExecutor)(nil)
