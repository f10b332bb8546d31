package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResourceRegistry(t *testing.T) {
	registry := NewStaticResourceRegistry()

	resource := Resource{
		URI:         "weather://canada/cities",
		Name:        "canadian-cities",
		Title:       "Canadian Cities Dataset",
		Description: "Bundled list of Canadian cities with provinces",
		MimeType:    "application/json",
	}
	require.NoError(t, registry.RegisterStaticText(resource, `[{"city":"Toronto","province":"ON"}]`))

	t.Run("list", func(t *testing.T) {
		result := registry.ListResources(context.Background(), ResourceListOptions{})
		require.Len(t, result.Resources, 1)
		assert.Equal(t, "weather://canada/cities", result.Resources[0].URI)
		assert.Equal(t, "canadian-cities", result.Resources[0].Name)
	})

	t.Run("read", func(t *testing.T) {
		contents, err := registry.ReadResource(context.Background(), "weather://canada/cities")
		require.NoError(t, err)
		require.Len(t, contents, 1)
		assert.True(t, contents[0].IsText())
		assert.Equal(t, "application/json", contents[0].GetMimeType())
		assert.Contains(t, contents[0].GetText(), "Toronto")
	})

	t.Run("read unknown", func(t *testing.T) {
		_, err := registry.ReadResource(context.Background(), "weather://nope")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("descriptor round-trip through catalog fields", func(t *testing.T) {
		result := registry.ListResources(context.Background(), ResourceListOptions{})
		require.Len(t, result.Resources, 1)
		got := result.Resources[0]
		assert.Equal(t, resource.Name, got.Name)
		assert.Equal(t, resource.Description, got.Description)
		assert.Equal(t, resource.URI, got.URI)
	})
}

func TestStaticPromptRegistry(t *testing.T) {
	registry := NewStaticPromptRegistry()

	prompt := Prompt{
		Name:        "weather-assistant",
		Description: "System prompt for the weather assistant",
		Arguments:   []PromptArgument{{Name: "region", Required: true}},
		Messages: []PromptMessage{
			{Role: "system", Content: "You are a weather assistant for {region}."},
		},
	}
	require.NoError(t, registry.RegisterPrompt(prompt))

	t.Run("get", func(t *testing.T) {
		got, found := registry.GetPrompt(context.Background(), "weather-assistant")
		require.True(t, found)
		assert.Equal(t, "weather-assistant", got.Name)
	})

	t.Run("process substitutes arguments", func(t *testing.T) {
		messages, err := registry.ProcessPrompt(context.Background(), "weather-assistant", map[string]string{
			"region": "Canada",
		})
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "You are a weather assistant for Canada.", messages[0].Content)
	})

	t.Run("missing required argument", func(t *testing.T) {
		_, err := registry.ProcessPrompt(context.Background(), "weather-assistant", nil)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("unknown prompt", func(t *testing.T) {
		_, err := registry.ProcessPrompt(context.Background(), "nope", nil)
		assert.ErrorIs(t, err, ErrPromptNotFound)
	})
}
