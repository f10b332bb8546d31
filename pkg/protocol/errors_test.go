package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonRpcErrorToResponse(t *testing.T) {
	testCases := []struct {
		name         string
		err          *JsonRpcError
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "Parse Error",
			err:          NewParseError("bad json", "req-1"),
			expectedCode: ErrParse,
			expectedMsg:  "Parse error: bad json",
		},
		{
			name:         "Invalid Request",
			err:          NewInvalidRequestError("missing Mcp-Session-Id, expecting initialize message", 7),
			expectedCode: ErrInvalidRequest,
			expectedMsg:  "Invalid request: missing Mcp-Session-Id, expecting initialize message",
		},
		{
			name:         "Method Not Found",
			err:          NewMethodNotFoundError("tools/destroy", nil),
			expectedCode: ErrMethodNotFound,
			expectedMsg:  "Method not found: tools/destroy",
		},
		{
			name:         "Session Not Found",
			err:          NewSessionNotFoundError("abc123", nil),
			expectedCode: ErrServer,
			expectedMsg:  "Session not found: abc123",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := tc.err.ToResponse()
			assert.Equal(t, "2.0", resp.JSONRPC)

			raw, err := json.Marshal(resp)
			require.NoError(t, err)

			var decoded struct {
				Error struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, tc.expectedCode, decoded.Error.Code)
			assert.Equal(t, tc.expectedMsg, decoded.Error.Message)
		})
	}
}

func TestJsonRpcErrorIs(t *testing.T) {
	err := NewInvalidParamsError("state is required", 1)
	wrapped := fmt.Errorf("handling tools/call: %w", err)

	assert.True(t, errors.Is(wrapped, &JsonRpcError{Code: ErrInvalidParams}))
	assert.False(t, errors.Is(wrapped, &JsonRpcError{Code: ErrMethodNotFound}))
}
