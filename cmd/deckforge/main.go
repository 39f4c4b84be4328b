package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/gnemet/DeckForge/internal/logging"
)

// Version is set during build
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:          "deckforge",
	Short:        "Generate slide decks from a title with an AI provider",
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ./config.yaml)")
	rootCmd.AddCommand(newGenerateCmd(), newInspectCmd(), newCheckAICmd())
}

// loadConfig reads and validates configuration and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logging.SetupWriter(cfg.Log, os.Stderr)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
