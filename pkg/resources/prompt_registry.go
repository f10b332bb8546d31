package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Common errors
var (
	ErrPromptNotFound = errors.New("prompt not found")
)

// PromptMessage represents a message in a prompt
type PromptMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// Prompt represents an MCP prompt definition
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
	Messages    []PromptMessage  `json:"messages,omitempty"`
}

// PromptArgument represents an argument for a prompt template
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// PromptListOptions provides pagination options for listing prompts
type PromptListOptions struct {
	Cursor string
}

// PromptListResult represents a paginated list of prompts
type PromptListResult struct {
	Prompts    []Prompt `json:"prompts"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

// PromptRegistry defines the interface for a prompt registry
type PromptRegistry interface {
	// GetPrompt returns a prompt by name
	GetPrompt(ctx context.Context, name string) (Prompt, bool)

	// ListPrompts returns a paginated list of prompts
	ListPrompts(ctx context.Context, opts PromptListOptions) PromptListResult

	// ProcessPrompt expands a prompt template with the given arguments
	ProcessPrompt(ctx context.Context, name string, arguments map[string]string) ([]PromptMessage, error)
}

// StaticPromptRegistry holds a fixed set of prompts keyed by name.
type StaticPromptRegistry struct {
	mu      sync.RWMutex
	prompts map[string]Prompt
}

// NewStaticPromptRegistry creates a new static prompt registry
func NewStaticPromptRegistry() *StaticPromptRegistry {
	return &StaticPromptRegistry{
		prompts: make(map[string]Prompt),
	}
}

// RegisterPrompt registers a prompt with the registry
func (r *StaticPromptRegistry) RegisterPrompt(prompt Prompt) error {
	if prompt.Name == "" {
		return fmt.Errorf("prompt name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts[prompt.Name] = prompt
	slog.Debug("Registered prompt", "name", prompt.Name)
	return nil
}

// GetPrompt returns a prompt by name
func (r *StaticPromptRegistry) GetPrompt(ctx context.Context, name string) (Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompt, ok := r.prompts[name]
	return prompt, ok
}

// ListPrompts returns a paginated list of prompts sorted by name.
func (r *StaticPromptRegistry) ListPrompts(ctx context.Context, opts PromptListOptions) PromptListResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.prompts))
	for name := range r.prompts {
		names = append(names, name)
	}
	sort.Strings(names)

	startPos := 0
	if opts.Cursor != "" {
		for i, name := range names {
			if name == opts.Cursor {
				startPos = i + 1
				break
			}
		}
	}

	endPos := startPos + listPageSize
	if endPos > len(names) {
		endPos = len(names)
	}

	var result PromptListResult
	if startPos >= len(names) {
		return result
	}

	result.Prompts = make([]Prompt, 0, endPos-startPos)
	for i := startPos; i < endPos; i++ {
		result.Prompts = append(result.Prompts, r.prompts[names[i]])
	}

	if endPos < len(names) {
		result.NextCursor = names[endPos-1]
	}

	return result
}

// ProcessPrompt substitutes {argument} placeholders in every text message
// of the prompt template.
func (r *StaticPromptRegistry) ProcessPrompt(ctx context.Context, name string, arguments map[string]string) ([]PromptMessage, error) {
	r.mu.RLock()
	prompt, ok := r.prompts[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPromptNotFound, name)
	}

	for _, arg := range prompt.Arguments {
		if arg.Required {
			if _, exists := arguments[arg.Name]; !exists {
				return nil, fmt.Errorf("%w: missing required argument %s", ErrInvalidParams, arg.Name)
			}
		}
	}

	messages := make([]PromptMessage, 0, len(prompt.Messages))
	for _, msg := range prompt.Messages {
		text, isText := msg.Content.(string)
		if !isText {
			messages = append(messages, msg)
			continue
		}
		for argName, argValue := range arguments {
			text = strings.ReplaceAll(text, "{"+argName+"}", argValue)
		}
		messages = append(messages, PromptMessage{Role: msg.Role, Content: text})
	}

	return messages, nil
}

var _ PromptRegistry = (*StaticPromptRegistry)(nil)
