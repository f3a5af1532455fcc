// Klyqad keeps a Klyqa light's state in sync and serves it over HTTP and,
// optionally, MQTT.
//
// Usage:
//
//	klyqad [--config path] [--log-level level]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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
	Use:   "klyqad",
	Short: "Klyqa light daemon",
	Long: `Polls a Klyqa light on the local network and keeps a cached copy of its state.

The state is served over a small HTTP API with a server-sent event stream and,
when enabled, mirrored to an MQTT broker.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to the config file (default: search /etc/klyqa, ~/.config/klyqa, .)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the config")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logger.Info("klyqad starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.NewApp(logger, cfg)
	if err := a.Initialise(ctx); err != nil {
		return err
	}

	err = a.Run(ctx)
	logger.Info("klyqad is closing")
	return err
}
