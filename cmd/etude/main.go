package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger

	// exitCode is applied after Execute returns so deferred cleanup and
	// PersistentPostRun run before the process exits.
	exitCode int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "etude",
	Short: "etude - daily snapshot aggregation for a data-driven static site",
	Long: `etude decouples a published site's static markup from its daily data.

The build side aggregates independent fetch tasks into one dated, versioned
snapshot published as a release asset; the client side resolves the newest
usable snapshot across a bounded day window and picks a presentation skin
from ambient context.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "etude.yaml", "path to config file")

	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(releaseInfoCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(skinsCmd)
	rootCmd.AddCommand(mockDataCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
