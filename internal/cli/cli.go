package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/config"
	"github.com/pfrederiksen/uww-referees/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

// ErrChanges is returned by update when the register changed
var ErrChanges = errors.New("register changed")

var (
	flagConfig  string
	flagDataDir string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uww-referees",
		Short: "Track the UWW international referee register",
		Long: `A CLI tool to track the UWW international referee register.
Scrapes the referees' list and Athena profiles, reports changes since the
last run and renders a static site with one page per referee.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Config file (YAML)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (overrides data_dir)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newScrapeCmd(),
		newUpdateCmd(),
		newStatsCmd(),
		newAgeCmd(),
		newNotifyCmd(),
		newServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig reads the config, applies global flags and sets up logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.Default().SetLevel(level)

	logger.Debug("Loaded config", logger.Fields{"config": flagConfig, "data_dir": cfg.DataDir})
	return cfg, nil
}

// outputFormat validates --format
func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, ErrChanges):
		os.Exit(ExitChanges)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
