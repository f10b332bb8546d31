package executors

import (
	"context"
	"fmt"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

type ResourceExecutor struct {
	serverInfo config.McpServerInfo
}

func NewResourceExecutor(serverInfo config.McpServerInfo) *ResourceExecutor {
	return &ResourceExecutor{serverInfo: serverInfo}
}

func (r *ResourceExecutor) CanHandleMethod(method string) bool {
	switch method {
	case "resources/list", "resources/read":
		return true
	default:
		return false
	}
}

func (r *ResourceExecutor) HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	registry := r.serverInfo.GetFeatureRegistry().ResourceRegistry
	if err := CheckFeature(registry != nil, method, req.ID); err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	params, err := ParseParams(req)
	if err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	var result interface{}

	switch method {
	case "resources/list":
		result, err = r.handleListResources(ctx, registry, params)
	case "resources/read":
		result, err = r.handleReadResource(ctx, registry, params)
	default:
		return protocol.JSONRPCMessage{}, protocol.NewMethodNotFoundError(method, req.ID)
	}

	if err != nil {
		return protocol.JSONRPCMessage{}, toJSONRPCError(err, req.ID)
	}

	return protocol.NewResponse(req.ID, result), nil
}

func (r *ResourceExecutor) handleListResources(ctx context.Context, registry resources.ResourceRegistry, params map[string]interface{}) (resources.ResourceListResult, error) {
	var cursor string
	if cursorVal, ok := params["cursor"]; ok {
		if cursorStr, ok := cursorVal.(string); ok {
			cursor = cursorStr
		}
	}

	return registry.ListResources(ctx, resources.ResourceListOptions{Cursor: cursor}), nil
}

func (r *ResourceExecutor) handleReadResource(ctx context.Context, registry resources.ResourceRegistry, params map[string]interface{}) (interface{}, error) {
	uriVal, ok := params["uri"]
	if !ok {
		return nil, fmt.Errorf("%w: uri is required", resources.ErrInvalidParams)
	}
	uri, ok := uriVal.(string)
	if !ok || uri == "" {
		return nil, fmt.Errorf("%w: uri must be a non-empty string", resources.ErrInvalidParams)
	}

	contents, err := registry.ReadResource(ctx, uri)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"contents": contents}, nil
}

var _ config.MethodHandler = (*ResourceExecutor)(nil)
