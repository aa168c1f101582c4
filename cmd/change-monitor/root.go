package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/filter"
	"github.com/0xmhha/change-monitor/pkg/logger"
	"github.com/0xmhha/change-monitor/pkg/store"
)

// version is set at build time via ldflags.
var version = "dev"

// errSilent aborts a command with exit code 1 after its output has
// already been printed.
var errSilent = errors.New("silent exit")

// Global flags.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "change-monitor",
	Short: "Debounced filesystem change notifications for project directories",
	Long: `change-monitor watches project directories for filesystem changes,
coalesces event bursts, drops tool and build noise through filter
rules, and delivers classified change events with priority ordering.

Run 'change-monitor watch' to stream events to the terminal, or
'change-monitor serve' to expose them over HTTP and SSE.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (text, json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errSilent) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the application configuration, honoring the
// persistent --config, --log-level, and --log-format flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(flagConfig).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}

	return cfg, nil
}

// buildLogger creates the logger described by the configuration.
func buildLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// buildFilter assembles the filter engine, appending any extra rules
// from the configuration. Rules without a kind count as custom.
func buildFilter(cfg *config.Config) *filter.Filter {
	f := filter.New()
	for _, rule := range cfg.Filter.ExtraRules {
		if rule.Kind == "" {
			rule.Kind = filter.KindCustom
		}
		f.Add(rule)
	}
	return f
}

// openStore opens the profile database from the configuration.
func openStore(cfg *config.Config, log logger.Logger) (store.Store, error) {
	st, err := store.Open(store.Config{Path: cfg.Store.Path}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	return st, nil
}

// closeStore closes the store, logging instead of failing the command.
func closeStore(st store.Store, log logger.Logger) {
	if err := st.Close(); err != nil {
		log.Error("failed to close profile store", "error", err)
	}
}
