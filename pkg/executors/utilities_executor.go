package executors

import (
	"context"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
)

// UtilitiesExecutor handles the unprefixed protocol methods.
type UtilitiesExecutor struct {
	serverInfo config.McpServerInfo
}

func NewUtilitiesExecutor(serverInfo config.McpServerInfo) *UtilitiesExecutor {
	return &UtilitiesExecutor{serverInfo: serverInfo}
}

func (u *UtilitiesExecutor) CanHandleMethod(method string) bool {
	switch method {
	case "ping", "initialize", "notifications/initialized":
		return true
	default:
		return false
	}
}

func (u *UtilitiesExecutor) HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	switch method {
	case "ping":
		// Empty object per the protocol
		return protocol.NewResponse(req.ID, map[string]interface{}{}), nil
	case "initialize":
		return u.handleInitialize(req)
	case "notifications/initialized":
		// Notification, nothing to answer
		return protocol.JSONRPCMessage{}, nil
	default:
		return protocol.JSONRPCMessage{}, protocol.NewMethodNotFoundError(method, req.ID)
	}
}

func (u *UtilitiesExecutor) handleInitialize(req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	cfg := u.serverInfo.GetServerConfig()

	params, err := ParseParams(req)
	if err != nil {
		return protocol.JSONRPCMessage{}, err
	}

	version := cfg.ProtocolVersion
	if requested, ok := params["protocolVersion"].(string); ok {
		if requested == string(protocol.ProtocolVersion20241105) && cfg.BackwardCompatible20241105 {
			version = requested
		}
	}

	result := protocol.InitializeResult{
		ProtocolVersion: version,
		ServerInfo: protocol.ServerInfo{
			Name:    cfg.ServerInfo.Name,
			Version: cfg.ServerInfo.Version,
		},
		Capabilities: u.serverInfo.GetServerCapabilities(),
	}

	return protocol.NewResponse(req.ID, result), nil
}

var _ config.MethodHandler = (*UtilitiesExecutor)(nil)
