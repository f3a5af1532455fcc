// Klyqa controls a Klyqa light from the terminal.
//
// Usage:
//
//	klyqa [command] [flags]
//
// See 'klyqa --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/wheelibin/klyqa/internal/app"
	"github.com/wheelibin/klyqa/internal/config"
	"github.com/wheelibin/klyqa/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "klyqa",
	Short: "Klyqa light control",
	Long: `Reads and controls a Klyqa light on the local network.

The status, on, off and tui commands talk to the light directly using the
same config as klyqad. The watch command follows a running klyqad.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(statusCmd, onCmd, offCmd, watchCmd, tuiCmd)
}

func newLogger(cfg config.LogConfig) (*log.Logger, error) {
	cfg.Level = logLevel
	return logging.NewLogger(cfg)
}

// connect reads the config and the light. Callers stop the coordinator.
func connect(ctx context.Context) (*app.App, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := app.NewApp(logger, cfg)
	if err := a.Initialise(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
