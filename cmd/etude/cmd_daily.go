package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"etude/internal/archive"
	"etude/internal/config"
	"etude/internal/daily"
	"etude/internal/etude"
	"etude/internal/etudes"
	"etude/internal/release"
)

var archiveFlag bool

// dailyCmd runs the aggregator and prints the snapshot JSON to stdout.
// The publishing workflow captures stdout and attaches it as the dated
// release asset; logs go to stderr.
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Run the daily tasks for all etudes and print the snapshot JSON",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().BoolVar(&archiveFlag, "archive", false, "also record the snapshot in the local archive")
}

func runDaily(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry, err := builtinRegistry()
	if err != nil {
		return err
	}

	runner := daily.NewRunner(registry, logger)
	snapshot := runner.RunAll(cmd.Context())

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))

	if archiveFlag || cfg.Archive.Enabled {
		if err := archiveSnapshot(cfg, snapshot); err != nil {
			return err
		}
	}
	return nil
}

func archiveSnapshot(cfg *config.Config, snapshot daily.Snapshot) error {
	mgr, err := release.NewManager(cfg.Release.TagPrefix)
	if err != nil {
		return err
	}
	tag := mgr.Tag(time.Now())

	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(tag, snapshot, time.Now()); err != nil {
		return err
	}
	logger.Info("snapshot archived", zap.String("tag", tag), zap.String("path", cfg.Archive.Path))
	return nil
}

func builtinRegistry() (*etude.Registry, error) {
	reg := etude.NewRegistry()
	if err := etudes.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
