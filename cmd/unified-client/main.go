// Command unified-client is an interactive chat client that fans out to
// several MCP servers at once. Their tool catalogs are merged under
// per-server namespaces and tool calls are routed back to the server that
// owns each tool.
package main

import (
	"context"
	"flag"
	"fmt"
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
	flag.Parse()

	config.LoadDotenv()
	logger.Setup(config.LogLevel(), config.LogFormat())

	llmEnv, err := config.LoadLLMEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	// Server URLs come from the command line, falling back to the
	// MCP_SERVERS environment variable.
	urls := flag.Args()
	if len(urls) == 0 {
		urls = config.LoadMCPServers()
	}
	if len(urls) == 0 {
		logger.Fatal("no servers configured, pass URLs as arguments or set " + config.EnvMCPServers)
	}

	connections := make([]*aggregator.Connection, 0, len(urls))
	for i, url := range urls {
		mcpClient, err := client.NewMcpClient(url, client.DefaultClientOptions())
		if err != nil {
			logger.Fatal("failed to create client", "server", url, "error", err)
		}
		connections = append(connections, aggregator.NewConnection(fmt.Sprintf("srv%d", i+1), mcpClient))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := llm.NewOllamaProvider(llmEnv.OllamaHost, llmEnv.Model)
	agg := aggregator.New(provider, connections...)
	if err := agg.Initialize(ctx); err != nil {
		logger.Fatal("failed to aggregate server catalogs", "error", err)
	}
	defer agg.Close(context.Background())

	loop := chat.NewLoop(chat.ProcessorFunc(func(ctx context.Context, query string) (string, error) {
		return agg.ProcessQuery(ctx, query), nil
	}), os.Stdin, os.Stdout)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("chat loop failed", "error", err)
	}
}
