package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/traego/weather-bridge/pkg/protocol"
	"github.com/traego/weather-bridge/pkg/session/store"
)

// stdioMaxLineBytes bounds a single newline-delimited message.
const stdioMaxLineBytes = 4 * 1024 * 1024

// ServeStdio runs the server over newline-delimited JSON-RPC on the given
// reader and writer. There is exactly one implicit session for the life of
// the process; the session store is not involved. Returns when the input
// reaches EOF or the context is canceled.
func (s *McpServer) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	handler := s.SessionHandler(store.TransportStdio)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), stdioMaxLineBytes)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg protocol.JSONRPCMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			parseErr := protocol.NewParseError(err.Error(), nil)
			if encErr := encoder.Encode(parseErr.ToResponse()); encErr != nil {
				return fmt.Errorf("failed to write parse error: %w", encErr)
			}
			continue
		}

		dispatchCtx := ctx
		var cancel context.CancelFunc
		if s.config.RequestTimeout > 0 {
			dispatchCtx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		}

		resp, err := handler.HandleMethod(dispatchCtx, msg.Method, msg)
		if cancel != nil {
			cancel()
		}

		if msg.IsNotification() {
			if err != nil {
				slog.WarnContext(ctx, "Notification handling failed", "method", msg.Method, "error", err)
			}
			continue
		}

		if err != nil {
			var rpcErr *protocol.JsonRpcError
			if !errors.As(err, &rpcErr) {
				rpcErr = protocol.NewInternalError(err.Error(), msg.ID)
			}
			if rpcErr.ID == nil {
				rpcErr.ID = msg.ID
			}
			if encErr := encoder.Encode(rpcErr.ToResponse()); encErr != nil {
				return fmt.Errorf("failed to write error response: %w", encErr)
			}
			continue
		}

		if encErr := encoder.Encode(resp); encErr != nil {
			return fmt.Errorf("failed to write response: %w", encErr)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read error: %w", err)
	}
	return nil
}
