// Command weather-api exposes the weather tools of an MCP server as a
// bearer-authenticated REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/traego/weather-bridge/internal/httpapi"
	"github.com/traego/weather-bridge/internal/logger"
	"github.com/traego/weather-bridge/pkg/client"
	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/protocol"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "MCP server URL")
	listenAddr := flag.String("listen", ":8081", "REST API listen address")
	flag.Parse()

	config.LoadDotenv()
	logger.Setup(config.LogLevel(), config.LogFormat())

	token, err := config.LoadBearerToken()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	// The server splits its tools across transports: the streamable HTTP
	// session carries the Canadian tools, the 2024-11-05 SSE session the US
	// ones. The adapter needs both, so it holds one connection per set.
	canadaClient, err := client.NewMcpClient(*serverURL, client.DefaultClientOptions())
	if err != nil {
		logger.Fatal("failed to create client", "error", err)
	}

	usOptions := client.DefaultClientOptions()
	usOptions.ProtocolVersion = protocol.ProtocolVersion20241105
	usClient, err := client.NewMcpClient(*serverURL, usOptions)
	if err != nil {
		logger.Fatal("failed to create client", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := canadaClient.Connect(ctx); err != nil {
		logger.Fatal("failed to connect to server", "server", *serverURL, "error", err)
	}
	defer func() { _ = canadaClient.Close(context.Background()) }()

	if err := usClient.Connect(ctx); err != nil {
		logger.Fatal("failed to connect to server", "server", *serverURL, "error", err)
	}
	defer func() { _ = usClient.Close(context.Background()) }()

	handler := httpapi.New(usClient, canadaClient, token)
	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("weather API listening", "addr", *listenAddr, "mcp_server", *serverURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", "error", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown error:", err)
		}
	}
}
