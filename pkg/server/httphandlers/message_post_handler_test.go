package httphandlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/session/store"
)

type erroringHandler struct {
	err error
}

func (h *erroringHandler) CanHandleMethod(method string) bool { return true }

func (h *erroringHandler) HandleMethod(ctx context.Context, method string, req protocol.JSONRPCMessage) (protocol.JSONRPCMessage, error) {
	return protocol.JSONRPCMessage{}, h.err
}

type recordingChannel struct {
	events []interface{}
	done   chan struct{}
}

func newRecordingChannel() *recordingChannel {
	return &recordingChannel{done: make(chan struct{})}
}

func (c *recordingChannel) Send(eventType string, data interface{}) error {
	c.events = append(c.events, data)
	return nil
}

func (c *recordingChannel) GetDoneChannel() <-chan struct{} { return c.done }
func (c *recordingChannel) Close()                          {}

func TestMessagePostPreservesWrappedErrorCode(t *testing.T) {
	rpcErr := protocol.NewInvalidParamsError("tool not found: nope", 7)
	handler := &erroringHandler{err: fmt.Errorf("dispatch failed: %w", rpcErr)}

	sessions := NewLiveSessionMap()
	channel := newRecordingChannel()
	live := &LiveSession{
		Session: store.Session{SessionID: "sess-1", Transport: store.TransportSSE},
		Handler: handler,
	}
	live.AttachChannel(channel)
	sessions.Put("sess-1", live)

	sessionStore := store.NewMemorySessionStore()
	t.Cleanup(func() { _ = sessionStore.Close() })
	mcpHandler := NewMCPHandler(config.TestConfig(), sessions, sessionStore,
		func(kind store.TransportKind) config.MethodHandler { return handler })

	body := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"nope"}}`
	req := httptest.NewRequest(http.MethodPost, "/messages?sessionId=sess-1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mcpHandler.HandleMessagePost(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, channel.events, 1)

	resp, ok := channel.events[0].(protocol.JSONRPCMessage)
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	errObj, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, protocol.ErrInvalidParams, errObj["code"])
}
