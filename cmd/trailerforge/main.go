// Package main provides the entry point for the TrailerForge client.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maauso/trailerforge/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trailerforge",
		Short:         "Turn a manuscript page into a cinematic trailer script",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newGenerateCmd())
	return root
}

// loadConfig reads .env (if present) and the environment, and installs the
// configured logger as the default.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}
