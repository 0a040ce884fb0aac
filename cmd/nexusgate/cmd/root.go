package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/nexusgate/internal/core/config"
	"github.com/solatis/nexusgate/internal/core/logging"
)

// Version is reported by /health and the trace resource.
const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "nexusgate",
	Short:         "Nexus integration gateway",
	Long:          `nexusgate receives signed webhooks and RPC messages from the Nexus platform and answers them with business decisions.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "delivery ledger URL (sqlite://path or postgres://...); overrides database.url")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

func newLogger() (logging.Logger, error) {
	logger, err := logging.New(os.Stderr, logLevel, logFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// resolveDBURL prefers --db-url over the configured database.url.
func resolveDBURL(cfg *config.GatewayConfig) string {
	if dbURL != "" {
		return dbURL
	}
	return cfg.DatabaseURL
}
