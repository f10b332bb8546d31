package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaProvider implements the Provider interface over the Ollama chat
// API, using its native tool-calling support.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GetName returns the provider name.
func (o *OllamaProvider) GetName() string {
	return "ollama"
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Tools    []ollamaTool        `json:"tools,omitempty"`
}

type ollamaChatMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaTool struct {
	Type     string             `json:"type"`
	Function ollamaToolFunction `json:"function"`
}

type ollamaToolFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

type ollamaToolCall struct {
	Function struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	} `json:"function"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
	Error   string            `json:"error,omitempty"`
}

// Chat sends the conversation to Ollama's /api/chat endpoint and returns
// the model's next message.
func (o *OllamaProvider) Chat(ctx context.Context, messages []Message, tools []ToolDef) (*ChatResponse, error) {
	request := ollamaChatRequest{
		Model:    o.model,
		Messages: make([]ollamaChatMessage, 0, len(messages)),
		Stream:   false,
	}
	for _, msg := range messages {
		request.Messages = append(request.Messages, toOllamaMessage(msg))
	}
	for _, tool := range tools {
		request.Tools = append(request.Tools, ollamaTool{
			Type: "function",
			Function: ollamaToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	slog.Debug("sending chat request",
		"model", o.model,
		"messages", len(messages),
		"tools", len(tools))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var response ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", response.Error)
	}

	return &ChatResponse{Message: fromOllamaMessage(response.Message)}, nil
}

func toOllamaMessage(msg Message) ollamaChatMessage {
	out := ollamaChatMessage{Role: msg.Role, Content: msg.Content}
	for _, call := range msg.ToolCalls {
		var oc ollamaToolCall
		oc.Function.Name = call.Name
		oc.Function.Arguments = call.Arguments
		out.ToolCalls = append(out.ToolCalls, oc)
	}
	return out
}

func fromOllamaMessage(msg ollamaChatMessage) Message {
	out := Message{Role: msg.Role, Content: msg.Content}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}

var _ Provider = (*OllamaProvider)(nil)
