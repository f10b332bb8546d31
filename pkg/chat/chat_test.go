package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopAnswersAndQuits(t *testing.T) {
	var queries []string
	processor := ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		queries = append(queries, query)
		return "answer to " + query, nil
	})

	in := strings.NewReader("weather in Austin?\n\nquit\n")
	var out bytes.Buffer

	loop := NewLoop(processor, in, &out)
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, []string{"weather in Austin?"}, queries)
	assert.Contains(t, out.String(), "answer to weather in Austin?")
	assert.Contains(t, out.String(), "Goodbye.")
}

func TestLoopExitSentinelIsCaseInsensitive(t *testing.T) {
	processor := ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		t.Fatal("processor should not be called")
		return "", nil
	})

	loop := NewLoop(processor, strings.NewReader("EXIT\n"), &bytes.Buffer{})
	require.NoError(t, loop.Run(context.Background()))
}

func TestLoopContinuesAfterError(t *testing.T) {
	calls := 0
	processor := ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("upstream blew up")
		}
		return "recovered", nil
	})

	in := strings.NewReader("first\nsecond\nquit\n")
	var out bytes.Buffer

	loop := NewLoop(processor, in, &out)
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 2, calls)
	assert.Contains(t, out.String(), "Something went wrong")
	assert.Contains(t, out.String(), "recovered")
}

func TestLoopEndsOnEOF(t *testing.T) {
	processor := ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		return "ok", nil
	})

	loop := NewLoop(processor, strings.NewReader("hello\n"), &bytes.Buffer{})
	require.NoError(t, loop.Run(context.Background()))
}

func TestLoopStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop := NewLoop(ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		return "", nil
	}), strings.NewReader("hello\n"), &bytes.Buffer{})

	err := loop.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
