package config

import (
	"context"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

// McpServerInfo is the read surface the executors need from a server
// instance.
type McpServerInfo interface {
	GetFeatureRegistry() *resources.FeatureRegistry
	GetServerCapabilities() protocol.ServerCapabilities
	GetServerConfig() *ServerConfig
}

// MethodHandler handles one family of JSON-RPC methods.
type MethodHandler interface {
	CanHandleMethod(method string) bool
	HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error)
}
