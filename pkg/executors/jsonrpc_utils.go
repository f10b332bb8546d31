package executors

import (
	"encoding/json"
	"errors"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

// ParseParams extracts the parameters from a JSON-RPC request as a generic
// map. In-process callers may attach typed params; those are round-tripped
// through JSON.
func ParseParams(req protocol.JSONRPCMessage) (map[string]interface{}, error) {
	if req.Params == nil {
		return make(map[string]interface{}), nil
	}

	if m, ok := req.Params.(map[string]interface{}); ok {
		return m, nil
	}

	raw, err := json.Marshal(req.Params)
	if err != nil {
		return nil, protocol.NewInvalidParamsError("Invalid parameters: "+err.Error(), req.ID)
	}
	var params map[string]interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, protocol.NewInvalidParamsError("Invalid parameters: "+err.Error(), req.ID)
	}
	return params, nil
}

// CheckFeature verifies a required feature registry component is available.
func CheckFeature(available bool, method string, reqID interface{}) error {
	if !available {
		return protocol.NewMethodNotFoundError(method, reqID)
	}
	return nil
}

// toJSONRPCError maps registry sentinel errors onto wire errors so callers
// see a proper JSON-RPC code instead of a bare internal error.
func toJSONRPCError(err error, reqID interface{}) error {
	var rpcErr *protocol.JsonRpcError
	if errors.As(err, &rpcErr) {
		return err
	}

	switch {
	case errors.Is(err, resources.ErrInvalidParams):
		return protocol.NewInvalidParamsError(err.Error(), reqID)
	case errors.Is(err, resources.ErrToolNotFound),
		errors.Is(err, resources.ErrResourceNotFound),
		errors.Is(err, resources.ErrPromptNotFound):
		return protocol.NewInvalidParamsError(err.Error(), reqID)
	default:
		return protocol.NewInternalError(err.Error(), reqID)
	}
}
