package resources

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGetTool(t *testing.T) {
	registry := NewStaticToolRegistry()

	tool := NewTool("get-alerts").
		WithDescription("Get weather alerts for a US state").
		WithString("state").Description("Two-letter state code").Required().Add().
		Build()

	err := registry.RegisterTool(tool, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	got, found := registry.GetTool(context.Background(), "get-alerts")
	require.True(t, found)
	assert.Equal(t, "get-alerts", got.Name)
	assert.Equal(t, []string{"state"}, got.InputSchema.Required)
	assert.Equal(t, "string", got.InputSchema.Properties["state"].Type)

	_, found = registry.GetTool(context.Background(), "nope")
	assert.False(t, found)
}

func TestRegisterToolDuplicateName(t *testing.T) {
	registry := NewStaticToolRegistry()
	tool := NewTool("get-alerts").Build()

	require.NoError(t, registry.RegisterTool(tool, nil))
	err := registry.RegisterTool(tool, nil)
	assert.Error(t, err)
}

func TestRegisterToolEmptyName(t *testing.T) {
	registry := NewStaticToolRegistry()
	err := registry.RegisterTool(Tool{}, nil)
	assert.Error(t, err)
}

func TestCallToolValidation(t *testing.T) {
	registry := NewStaticToolRegistry()

	var gotParams map[string]interface{}
	tool := NewTool("get-canada-forecast").
		WithString("location").Required().Add().
		WithInteger("days").Default(1).Range(1, 3).Add().
		Build()

	require.NoError(t, registry.RegisterTool(tool, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		gotParams = params
		return "forecast", nil
	}))

	t.Run("missing required parameter", func(t *testing.T) {
		_, err := registry.CallTool(context.Background(), "get-canada-forecast", map[string]interface{}{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("default applied", func(t *testing.T) {
		_, err := registry.CallTool(context.Background(), "get-canada-forecast", map[string]interface{}{
			"location": "Toronto",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, gotParams["days"])
	})

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := registry.CallTool(context.Background(), "get-canada-forecast", map[string]interface{}{
			"location": "Toronto",
			"days":     float64(7),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := registry.CallTool(context.Background(), "missing", nil)
		assert.ErrorIs(t, err, ErrToolNotFound)
	})
}

func TestListToolsPagination(t *testing.T) {
	registry := NewStaticToolRegistry()

	for i := 0; i < 25; i++ {
		tool := NewTool(fmt.Sprintf("tool-%02d", i)).Build()
		require.NoError(t, registry.RegisterTool(tool, nil))
	}

	first := registry.ListTools(context.Background(), ToolListOptions{})
	require.Len(t, first.Tools, 20)
	require.NotEmpty(t, first.NextCursor)

	second := registry.ListTools(context.Background(), ToolListOptions{Cursor: first.NextCursor})
	assert.Len(t, second.Tools, 5)
	assert.Empty(t, second.NextCursor)

	// Sorted, no overlap between pages.
	assert.Equal(t, "tool-00", first.Tools[0].Name)
	assert.Equal(t, "tool-20", second.Tools[0].Name)
}
