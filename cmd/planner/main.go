// Command planner drives the content planner from a terminal: generate post
// copy, list planned items and export them as CSV.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"github.com/tendant/content-planner/internal/logging"
	"github.com/tendant/content-planner/pkg/planner"
	"github.com/tendant/content-planner/pkg/planner/config"
)

var (
	envPrefix string
	logLevel  string
	seed      uint64

	rootCmd = &cobra.Command{
		Use:           "planner",
		Short:         "Plan and generate social media content",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", "", "prefix for environment variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides LOG_LEVEL")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "seed for reproducible template output (0 is random)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withService builds the configured service and hands it to fn
func withService(ctx context.Context, fn func(planner.Service) error) error {
	opts := []config.Option{
		config.WithLogLevel("warn"),
		config.WithEventLogging(false),
		config.WithEnv(envPrefix),
		config.WithGeneratorSeed(seed),
	}
	if logLevel != "" {
		opts = append(opts, config.WithLogLevel(logLevel))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.Init(cfg.Environment, cfg.LogLevel)

	svc, cleanup, err := cfg.BuildService(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer cleanup()
	return fn(svc)
}
