package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallToolResultJoinText(t *testing.T) {
	testCases := []struct {
		name     string
		result   CallToolResult
		expected string
	}{
		{
			name:     "single text block",
			result:   CallToolResult{Content: []Content{NewTextContent("No active weather alerts for CA")}},
			expected: "No active weather alerts for CA",
		},
		{
			name: "multiple text blocks joined with newlines",
			result: CallToolResult{Content: []Content{
				NewTextContent("Tonight: Clear"),
				NewTextContent("Tomorrow: Rain"),
			}},
			expected: "Tonight: Clear\nTomorrow: Rain",
		},
		{
			name: "non-text block is stringified",
			result: CallToolResult{Content: []Content{
				{Type: "image", Data: "aGk=", Mime: "image/png"},
			}},
			expected: `{"type":"image","data":"aGk=","mimeType":"image/png"}`,
		},
		{
			name:     "empty result",
			result:   CallToolResult{},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.result.JoinText())
		})
	}
}
