// Package chat implements the blocking readline loop shared by the chat
// client binaries.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// QueryProcessor answers one user query at a time.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string) (string, error)
}

// ProcessorFunc adapts a function to the QueryProcessor interface.
type ProcessorFunc func(ctx context.Context, query string) (string, error)

// ProcessQuery calls the wrapped function.
func (f ProcessorFunc) ProcessQuery(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// Sentinel words that end the loop.
var exitWords = map[string]bool{
	"quit": true,
	"exit": true,
}

// Loop reads queries line by line, forwards them to the processor and
// prints answers. A processing failure is logged and the loop continues.
type Loop struct {
	processor QueryProcessor
	in        io.Reader
	out       io.Writer
}

// NewLoop creates a chat loop over the given reader and writer.
func NewLoop(processor QueryProcessor, in io.Reader, out io.Writer) *Loop {
	return &Loop{processor: processor, in: in, out: out}
}

// Run blocks until the input ends, a sentinel word is entered or the
// context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, "Type a question, or 'quit' to leave.")

	scanner := bufio.NewScanner(l.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(l.out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			fmt.Fprintln(l.out, "Goodbye.")
			return nil
		}

		answer, err := l.processor.ProcessQuery(ctx, line)
		if err != nil {
			slog.Error("failed to process query", "error", err)
			fmt.Fprintln(l.out, "Something went wrong, please try again.")
			continue
		}
		fmt.Fprintln(l.out, answer)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
