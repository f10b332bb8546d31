package executors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

type fakeServerInfo struct {
	features *resources.FeatureRegistry
	cfg      *config.ServerConfig
}

func (f *fakeServerInfo) GetFeatureRegistry() *resources.FeatureRegistry { return f.features }
func (f *fakeServerInfo) GetServerConfig() *config.ServerConfig          { return f.cfg }
func (f *fakeServerInfo) GetServerCapabilities() protocol.ServerCapabilities {
	return f.cfg.ServerCapabilities
}

func newFakeServerInfo(t *testing.T) *fakeServerInfo {
	t.Helper()

	tools := resources.NewStaticToolRegistry()
	echo := resources.NewTool("echo").
		WithDescription("Echo a message back").
		WithString("message").Required().Add().
		Build()
	require.NoError(t, tools.RegisterTool(echo, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return params["message"], nil
	}))

	res := resources.NewStaticResourceRegistry()
	require.NoError(t, res.RegisterStaticText(resources.Resource{
		URI: "test://greeting", Name: "greeting", MimeType: "text/plain",
	}, "hello"))

	prompts := resources.NewStaticPromptRegistry()
	require.NoError(t, prompts.RegisterPrompt(resources.Prompt{
		Name:        "greet",
		Description: "Greets someone",
		Arguments:   []resources.PromptArgument{{Name: "who", Required: true}},
		Messages:    []resources.PromptMessage{{Role: "user", Content: "Say hello to {who}"}},
	}))

	return &fakeServerInfo{
		features: &resources.FeatureRegistry{
			ToolRegistry:     tools,
			ResourceRegistry: res,
			PromptRegistry:   prompts,
		},
		cfg: config.TestConfig(),
	}
}

func TestToolExecutorListAndCall(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	resp, err := exec.HandleMethod(context.Background(), "tools/list",
		protocol.NewRequest(1, "tools/list", nil))
	require.NoError(t, err)
	listResult, ok := resp.Result.(resources.ToolListResult)
	require.True(t, ok)
	require.Len(t, listResult.Tools, 1)
	assert.Equal(t, "echo", listResult.Tools[0].Name)

	resp, err = exec.HandleMethod(context.Background(), "tools/call",
		protocol.NewRequest(2, "tools/call", map[string]interface{}{
			"name":      "echo",
			"arguments": map[string]interface{}{"message": "hi"},
		}))
	require.NoError(t, err)
	callResult, ok := resp.Result.(protocol.CallToolResult)
	require.True(t, ok)
	require.Len(t, callResult.Content, 1)
	assert.Equal(t, "text", callResult.Content[0].Type)
	assert.Equal(t, "hi", callResult.Content[0].Text)
}

func TestToolExecutorMissingRequiredParam(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	_, err := exec.HandleMethod(context.Background(), "tools/call",
		protocol.NewRequest(3, "tools/call", map[string]interface{}{
			"name":      "echo",
			"arguments": map[string]interface{}{},
		}))
	require.Error(t, err)
	var rpcErr *protocol.JsonRpcError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ErrInvalidParams, rpcErr.Code)
}

func TestToolExecutorUnknownTool(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	_, err := exec.HandleMethod(context.Background(), "tools/call",
		protocol.NewRequest(4, "tools/call", map[string]interface{}{"name": "nope"}))
	require.Error(t, err)
	var rpcErr *protocol.JsonRpcError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ErrInvalidParams, rpcErr.Code)
}

func TestExecutorsMethodNotFound(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	assert.False(t, exec.CanHandleMethod("bogus/method"))

	_, err := exec.HandleMethod(context.Background(), "bogus/method",
		protocol.NewRequest(5, "bogus/method", nil))
	require.Error(t, err)
	var rpcErr *protocol.JsonRpcError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ErrMethodNotFound, rpcErr.Code)
}

func TestUtilitiesExecutorPing(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	resp, err := exec.HandleMethod(context.Background(), "ping",
		protocol.NewRequest("p1", "ping", nil))
	require.NoError(t, err)
	assert.Equal(t, "p1", resp.ID)
	assert.Equal(t, map[string]interface{}{}, resp.Result)
}

func TestUtilitiesExecutorInitialize(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	resp, err := exec.HandleMethod(context.Background(), "initialize",
		protocol.NewRequest(1, "initialize", map[string]interface{}{
			"protocolVersion": "2025-03-26",
			"clientInfo":      map[string]interface{}{"name": "test", "version": "0.1"},
		}))
	require.NoError(t, err)
	result, ok := resp.Result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, string(protocol.ProtocolVersion20250326), result.ProtocolVersion)
	assert.Equal(t, info.cfg.ServerInfo.Name, result.ServerInfo.Name)
}

func TestUtilitiesExecutorInitializeBackwardCompat(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	resp, err := exec.HandleMethod(context.Background(), "initialize",
		protocol.NewRequest(1, "initialize", map[string]interface{}{
			"protocolVersion": "2024-11-05",
		}))
	require.NoError(t, err)
	result := resp.Result.(protocol.InitializeResult)
	assert.Equal(t, string(protocol.ProtocolVersion20241105), result.ProtocolVersion)
}
