// Command weather-server runs the MCP weather server. By default it serves
// the streamable HTTP transport with backward compatible SSE endpoints;
// with -stdio it speaks newline-delimited JSON-RPC on stdin/stdout instead.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/traego/weather-bridge/internal/logger"
	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/resources"
	"github.com/traego/weather-bridge/pkg/server"
	"github.com/traego/weather-bridge/pkg/session/store"
	"github.com/traego/weather-bridge/pkg/toolset"
	"github.com/traego/weather-bridge/pkg/weather"
)

func main() {
	stdio := flag.Bool("stdio", false, "serve JSON-RPC on stdin/stdout instead of HTTP")
	port := flag.Int("port", 8080, "HTTP listen port")
	flag.Parse()

	config.LoadDotenv()
	logger.Setup(config.LogLevel(), config.LogFormat())

	// The Canada provider is only reachable through the streamable HTTP
	// capability set, so its key is not required in stdio mode.
	env, err := config.LoadWeatherEnv(!*stdio)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	deps := toolset.Deps{
		US: weather.NewNWSClient(env.NWSAPIBase, env.NWSUserAgent),
	}
	if env.CanadaAPIKey != "" {
		deps.Canada = weather.NewCanadaClient(env.CanadaAPIBase, env.CanadaAPIKey)
	}

	cfg := config.DefaultConfig()
	cfg.HTTP.Port = *port

	mcpServer, err := server.NewMcpServer(cfg, server.WithToolsetSelector(
		func(kind store.TransportKind) *resources.FeatureRegistry {
			return toolset.ForTransport(kind, deps)
		},
	))
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *stdio {
		if err := mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			logger.Fatal("stdio serving failed", "error", err)
		}
		return
	}

	if err := mcpServer.Start(ctx); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
	slog.Info("weather server listening",
		"host", cfg.HTTP.Host,
		"port", cfg.HTTP.Port,
		"mcp_path", cfg.HTTP.MCPPath)

	<-ctx.Done()
	slog.Info("shutting down")
	mcpServer.Stop(context.Background())
}
