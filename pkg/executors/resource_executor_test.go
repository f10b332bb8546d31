package executors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/resources"
)

func TestResourceExecutorListAndRead(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	resp, err := exec.HandleMethod(context.Background(), "resources/list",
		protocol.NewRequest(1, "resources/list", nil))
	require.NoError(t, err)
	listResult, ok := resp.Result.(resources.ResourceListResult)
	require.True(t, ok)
	require.Len(t, listResult.Resources, 1)
	assert.Equal(t, "test://greeting", listResult.Resources[0].URI)

	resp, err = exec.HandleMethod(context.Background(), "resources/read",
		protocol.NewRequest(2, "resources/read", map[string]interface{}{"uri": "test://greeting"}))
	require.NoError(t, err)
	readResult, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	contents, ok := readResult["contents"].([]resources.ResourceContents)
	require.True(t, ok)
	require.Len(t, contents, 1)
	assert.Equal(t, "hello", contents[0].GetText())
}

func TestResourceExecutorUnknownURI(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	_, err := exec.HandleMethod(context.Background(), "resources/read",
		protocol.NewRequest(3, "resources/read", map[string]interface{}{"uri": "test://missing"}))
	require.Error(t, err)
	var rpcErr *protocol.JsonRpcError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ErrInvalidParams, rpcErr.Code)
}

func TestResourceExecutorMissingURI(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	_, err := exec.HandleMethod(context.Background(), "resources/read",
		protocol.NewRequest(4, "resources/read", map[string]interface{}{}))
	require.Error(t, err)
	var rpcErr *protocol.JsonRpcError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ErrInvalidParams, rpcErr.Code)
}

func TestPromptExecutorGet(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	resp, err := exec.HandleMethod(context.Background(), "prompts/get",
		protocol.NewRequest(1, "prompts/get", map[string]interface{}{
			"name":      "greet",
			"arguments": map[string]interface{}{"who": "world"},
		}))
	require.NoError(t, err)
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	messages, ok := result["messages"].([]resources.PromptMessage)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "Say hello to world", messages[0].Content)
}

func TestPromptExecutorMissingRequiredArgument(t *testing.T) {
	info := newFakeServerInfo(t)
	exec := DefaultExecutors(info)

	_, err := exec.HandleMethod(context.Background(), "prompts/get",
		protocol.NewRequest(2, "prompts/get", map[string]interface{}{"name": "greet"}))
	require.Error(t, err)
}
