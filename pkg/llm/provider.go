// Package llm is the completion boundary for the chat clients. Callers
// depend on the Provider interface only, so tests can inject a fake.
package llm

import "context"

// Message roles used on the chat API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolDef describes a tool offered to the model. Parameters carries the
// JSON schema of the tool's input.
type ToolDef struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

// ChatResponse is the model's reply to a Chat call.
type ChatResponse struct {
	Message Message
}

// Provider defines the interface for LLM providers.
type Provider interface {
	// Chat sends the conversation so far, optionally offering tools, and
	// returns the model's next message.
	Chat(ctx context.Context, messages []Message, tools []ToolDef) (*ChatResponse, error)

	// GetName returns the provider name.
	GetName() string
}
