package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
)

func TestServeStdio(t *testing.T) {
	srv, err := NewMcpServer(config.TestConfig(), WithToolRegistry(testToolRegistry(t, "echo")))
	require.NoError(t, err)
	defer srv.Stop(context.Background())

	lines := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","clientInfo":{"name":"t","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"no/such-method"}`,
		`not json at all`,
	}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer

	require.NoError(t, srv.ServeStdio(context.Background(), in, &out))

	var responses []protocol.JSONRPCMessage
	decoder := json.NewDecoder(&out)
	for decoder.More() {
		var msg protocol.JSONRPCMessage
		require.NoError(t, decoder.Decode(&msg))
		responses = append(responses, msg)
	}

	// initialize, tools/list, method-not-found, parse error; the
	// notification gets no reply
	require.Len(t, responses, 4)

	assert.Nil(t, responses[0].Error)
	assert.EqualValues(t, 1, responses[0].ID)

	assert.Nil(t, responses[1].Error)
	raw, _ := json.Marshal(responses[1].Result)
	assert.Contains(t, string(raw), "echo")

	require.NotNil(t, responses[2].Error)
	errObj := responses[2].Error.(map[string]interface{})
	assert.Equal(t, float64(protocol.ErrMethodNotFound), errObj["code"])

	require.NotNil(t, responses[3].Error)
	errObj = responses[3].Error.(map[string]interface{})
	assert.Equal(t, float64(protocol.ErrParse), errObj["code"])
}

func TestServeStdioContextCancel(t *testing.T) {
	srv, err := NewMcpServer(config.TestConfig())
	require.NoError(t, err)
	defer srv.Stop(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	var out bytes.Buffer
	err = srv.ServeStdio(ctx, in, &out)
	assert.ErrorIs(t, err, context.Canceled)
}
