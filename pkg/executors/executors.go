// Package executors routes JSON-RPC methods to the feature registries. Each
// executor owns one method family; the Executors front dispatches by method
// prefix.
package executors

import (
	"context"
	"strings"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
)

type Executors struct {
	Tools     config.MethodHandler
	Prompts   config.MethodHandler
	Resources config.MethodHandler
	Utilities config.MethodHandler
}

func DefaultExecutors(serverInfo config.McpServerInfo) *Executors {
	return &Executors{
		Tools:     NewToolExecutor(serverInfo),
		Prompts:   NewPromptExecutor(serverInfo),
		Resources: NewResourceExecutor(serverInfo),
		Utilities: NewUtilitiesExecutor(serverInfo),
	}
}

func (e *Executors) CanHandleMethod(method string) bool {
	if e.Tools != nil && e.Tools.CanHandleMethod(method) {
		return true
	} else if e.Prompts != nil && e.Prompts.CanHandleMethod(method) {
		return true
	} else if e.Resources != nil && e.Resources.CanHandleMethod(method) {
		return true
	} else if e.Utilities != nil && e.Utilities.CanHandleMethod(method) {
		return true
	}
	return false
}

func (e *Executors) HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	ms := strings.Split(method, "/")
	if len(ms) >= 2 {
		switch ms[0] {
		case "tools":
			if e.Tools != nil && e.Tools.CanHandleMethod(method) {
				return e.Tools.HandleMethod(ctx, method, req)
			}
		case "resources":
			if e.Resources != nil && e.Resources.CanHandleMethod(method) {
				return e.Resources.HandleMethod(ctx, method, req)
			}
		case "prompts":
			if e.Prompts != nil && e.Prompts.CanHandleMethod(method) {
				return e.Prompts.HandleMethod(ctx, method, req)
			}
		}
	}

	// Utility methods have no prefix (ping, initialize)
	if e.Utilities != nil && e.Utilities.CanHandleMethod(method) {
		return e.Utilities.HandleMethod(ctx, method, req)
	}

	return protocol.JSONRPCMessage{}, protocol.NewMethodNotFoundError(method, req.ID)
}

var _ config.MethodHandler = (*Executors)(nil)
