package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"github.com/tendant/content-planner/internal/logging"
	"github.com/tendant/content-planner/pkg/planner/api"
	"github.com/tendant/content-planner/pkg/planner/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the process environment still applies
	_ = gotenv.Load()

	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.Init(cfg.Environment, cfg.LogLevel)

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set to serve the API")
	}

	ctx := context.Background()
	if err := cfg.CheckDatabase(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	svc, cleanup, err := cfg.BuildService(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer cleanup()

	router := api.NewRouter(api.RouterConfig{
		Service:        svc,
		Authenticate:   api.JWTAuthenticator([]byte(cfg.JWTSecret)),
		Logger:         logger,
		Metrics:        api.NewPrometheusMetrics(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Content planner starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"database", cfg.DatabaseType,
			"storage", cfg.Storage.Type,
			"ai_provider", cfg.AI.Provider,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}
