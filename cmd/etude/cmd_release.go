package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"etude/internal/config"
	"etude/internal/release"
)

// releaseInfoCmd derives today's tag and release title for the publishing
// workflow.
var releaseInfoCmd = &cobra.Command{
	Use:   "release-info",
	Short: "Print today's release tag and title as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		mgr, err := release.NewManager(cfg.Release.TagPrefix)
		if err != nil {
			return err
		}
		info, err := mgr.Info(time.Now())
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode release info: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}
