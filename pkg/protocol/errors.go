package protocol

import (
	"fmt"
)

// Standard JSON-RPC error codes
const (
	// Parse error
	ErrParse = -32700
	// Invalid request
	ErrInvalidRequest = -32600
	// Method not found
	ErrMethodNotFound = -32601
	// Invalid params
	ErrInvalidParams = -32602
	// Internal error
	ErrInternal = -32603
	// Server error (reserved for implementation-defined server errors)
	ErrServer = -32000
)

// JsonRpcError represents a JSON-RPC error
type JsonRpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	ID      interface{} // The ID of the request that caused this error
}

// Error implements the error interface
func (e *JsonRpcError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("JSON-RPC error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// ToResponse converts the error to a JSON-RPC response message
func (e *JsonRpcError) ToResponse() JSONRPCMessage {
	errorObj := map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
	}

	if e.Data != nil {
		errorObj["data"] = e.Data
	}

	return JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      e.ID,
		Error:   errorObj,
	}
}

// Is allows errors.Is matching on code and message.
func (e *JsonRpcError) Is(target error) bool {
	targetErr, ok := target.(*JsonRpcError)
	if !ok {
		return false
	}
	if targetErr.Code != 0 && e.Code != targetErr.Code {
		return false
	}
	if targetErr.Message != "" && e.Message != targetErr.Message {
		return false
	}
	return true
}

// NewError creates a new JSON-RPC error
func NewError(code int, message string, data interface{}, id interface{}) *JsonRpcError {
	return &JsonRpcError{
		Code:    code,
		Message: message,
		Data:    data,
		ID:      id,
	}
}

// NewParseError creates a new parse error
func NewParseError(details string, id interface{}) *JsonRpcError {
	message := "Parse error"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrParse, message, nil, id)
}

// NewInvalidRequestError creates a new invalid request error
func NewInvalidRequestError(details string, id interface{}) *JsonRpcError {
	message := "Invalid request"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrInvalidRequest, message, nil, id)
}

// NewMethodNotFoundError creates a new method not found error
func NewMethodNotFoundError(method string, id interface{}) *JsonRpcError {
	return NewError(ErrMethodNotFound, "Method not found: "+method, nil, id)
}

// NewInvalidParamsError creates a new invalid params error
func NewInvalidParamsError(details string, id interface{}) *JsonRpcError {
	message := "Invalid params"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrInvalidParams, message, nil, id)
}

// NewInternalError creates a new internal error
func NewInternalError(details string, id interface{}) *JsonRpcError {
	message := "Internal error"
	if details != "" {
		message += ": " + details
	}
	return NewError(ErrInternal, message, nil, id)
}

// NewServerError creates a new server error
func NewServerError(code int, message string, data interface{}, id interface{}) *JsonRpcError {
	return NewError(code, message, data, id)
}

// NewSessionNotFoundError is returned when a request carries an unknown,
// non-empty session id. Unknown sessions are rejected, never re-minted.
func NewSessionNotFoundError(sessionID string, id interface{}) *JsonRpcError {
	return NewError(ErrServer, fmt.Sprintf("Session not found: %s", sessionID), nil, id)
}
