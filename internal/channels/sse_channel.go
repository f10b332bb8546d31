// Package channels provides the one-way server-to-client channels used by
// the HTTP transports.
package channels

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// OneWayChannel is a server-to-client event channel.
type OneWayChannel interface {
	Send(eventType string, data interface{}) error
	GetDoneChannel() <-chan struct{}
	Close()
}

// SSEChannel streams server-sent events over an open HTTP response. Writes
// are serialized with a mutex because session dispatch and keep-alives can
// race on the same response writer.
type SSEChannel struct {
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
	w         http.ResponseWriter
	flusher   http.Flusher
}

// NewSSEChannel prepares the response for event streaming and returns the
// channel. It fails if the response writer cannot flush.
func NewSSEChannel(w http.ResponseWriter) (*SSEChannel, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEChannel{
		w:       w,
		flusher: flusher,
		done:    make(chan struct{}),
	}, nil
}

// GetDoneChannel returns a channel closed when the SSE stream is closed.
func (c *SSEChannel) GetDoneChannel() <-chan struct{} {
	return c.done
}

// Send writes one event. Non-string data is JSON-marshaled.
func (c *SSEChannel) Send(eventType string, data interface{}) error {
	var dataStr string
	switch d := data.(type) {
	case string:
		dataStr = d
	default:
		jsonData, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("error marshaling event data: %w", err)
		}
		dataStr = string(jsonData)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return fmt.Errorf("channel is closed")
	default:
	}

	if eventType != "" {
		if _, err := fmt.Fprintf(c.w, "event: %s\n", eventType); err != nil {
			return fmt.Errorf("error writing event type: %w", err)
		}
	}
	if _, err := fmt.Fprintf(c.w, "data: %s\n\n", dataStr); err != nil {
		return fmt.Errorf("error writing event data: %w", err)
	}

	c.flusher.Flush()
	return nil
}

// SendEndpoint sends the 2024-spec endpoint event pointing the client at
// its message POST URL.
func (c *SSEChannel) SendEndpoint(endpoint string) error {
	return c.Send("endpoint", endpoint)
}

// Close marks the channel closed. Safe to call more than once.
func (c *SSEChannel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

var _ OneWayChannel = (*SSEChannel)(nil)
