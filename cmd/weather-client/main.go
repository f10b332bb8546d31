// Command weather-client is an interactive chat client against a single
// MCP weather server, with tool calls answered by a local Ollama model.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/traego/weather-bridge/internal/logger"
	"github.com/traego/weather-bridge/pkg/aggregator"
	"github.com/traego/weather-bridge/pkg/chat"
	"github.com/traego/weather-bridge/pkg/client"
	"github.com/traego/weather-bridge/pkg/config"
	"github.com/traego/weather-bridge/pkg/llm"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "MCP server URL")
	flag.Parse()

	config.LoadDotenv()
	logger.Setup(config.LogLevel(), config.LogFormat())

	llmEnv, err := config.LoadLLMEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	mcpClient, err := client.NewMcpClient(*serverURL, client.DefaultClientOptions())
	if err != nil {
		logger.Fatal("failed to create client", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpClient.Connect(ctx); err != nil {
		logger.Fatal("failed to connect to server", "server", *serverURL, "error", err)
	}

	provider := llm.NewOllamaProvider(llmEnv.OllamaHost, llmEnv.Model)
	agg := aggregator.New(provider, aggregator.NewConnection("weather", mcpClient))
	if err := agg.Initialize(ctx); err != nil {
		logger.Fatal("failed to aggregate server catalog", "error", err)
	}
	defer agg.Close(context.Background())

	loop := chat.NewLoop(chat.ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		return agg.ProcessQuery(ctx, query), nil
	}), os.Stdin, os.Stdout)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("chat loop failed", "error", err)
	}
}
