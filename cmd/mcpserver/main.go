package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/subosito/gotenv"
	"github.com/tendant/content-planner/internal/logging"
	"github.com/tendant/content-planner/pkg/planner/config"
	"github.com/tendant/content-planner/pkg/planner/mcp"
)

// listenConfig holds the settings only the network modes need
type listenConfig struct {
	Port    uint16 `env:"MCP_PORT" env-default:"8000"`
	BaseURL string `env:"MCP_BASE_URL" env-default:"http://localhost:8000"`
}

func main() {
	var mode = flag.String("mode", "stdio", "Server mode: 'stdio', 'sse', or 'http'")
	flag.Parse()

	if err := gotenv.Load(); err != nil {
		slog.Info("No .env file found, using OS environment", "err", err)
	}

	var listen listenConfig
	if err := cleanenv.ReadEnv(&listen); err != nil {
		slog.Error("Failed to read MCP environment", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.Init(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()
	if err := cfg.CheckDatabase(ctx); err != nil {
		logger.Error("Database unavailable", "err", err)
		os.Exit(1)
	}

	svc, cleanup, err := cfg.BuildService(ctx, logger)
	if err != nil {
		logger.Error("Failed to build service", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	s := server.NewMCPServer(
		"Content Planner MCP",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	handler := mcp.NewHandler(svc, logger)
	handler.RegisterTools(s)
	if *mode == "stdio" {
		handler.RegisterUserTools(s)
	} else {
		logger.Info("list_items is only served over stdio", "mode", *mode)
	}

	switch *mode {
	case "sse":
		sseServer := server.NewSSEServer(s, server.WithBaseURL(listen.BaseURL))
		logger.Info("Starting SSE server", "base_url", listen.BaseURL)
		err = sseServer.Start(fmt.Sprintf(":%d", listen.Port))
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		logger.Info("HTTP server listening", "port", listen.Port)
		err = httpServer.Start(fmt.Sprintf(":%d", listen.Port))
	case "stdio":
		logger.Info("Starting in stdio mode")
		err = server.ServeStdio(s)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("MCP server stopped", "mode", *mode, "err", err)
		cleanup()
		os.Exit(1)
	}
}
