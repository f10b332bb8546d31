package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content is a single content block inside a tool call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
	Mime string `json:"mimeType,omitempty"`
}

// NewTextContent creates a text content block.
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// CallToolResult is the result shape of a tools/call request.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// JoinText flattens the result's content blocks into one string. Text
// blocks are joined with newlines; anything else is JSON-stringified so the
// caller always gets printable text.
func (r CallToolResult) JoinText() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		if c.Type == "text" {
			parts = append(parts, c.Text)
			continue
		}
		raw, err := json.Marshal(c)
		if err != nil {
			parts = append(parts, fmt.Sprintf("%+v", c))
			continue
		}
		parts = append(parts, string(raw))
	}
	return strings.Join(parts, "\n")
}
