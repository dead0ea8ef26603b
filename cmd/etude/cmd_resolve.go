package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"etude/internal/config"
	"etude/internal/resolver"
)

var (
	resolveOwner   string
	resolveRepo    string
	resolveDays    int
	resolveRetries int
	resolveDelay   time.Duration
	resolveTimeout time.Duration
)

// resolveCmd runs the client-side snapshot resolution against the published
// repository, e.g. to verify a publish from CI. Exit codes: 0 success,
// 1 error, 2 not_found.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Locate and retrieve the newest published snapshot",
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveOwner, "owner", "", "repository owner (default from config)")
	resolveCmd.Flags().StringVar(&resolveRepo, "repo", "", "repository name (default from config)")
	resolveCmd.Flags().IntVar(&resolveDays, "days", 0, "days to search back (default from config)")
	resolveCmd.Flags().IntVar(&resolveRetries, "retries", 0, "retries per day (default from config)")
	resolveCmd.Flags().DurationVar(&resolveDelay, "delay", 0, "delay between retries (default from config)")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 2*time.Minute, "overall resolution timeout")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	owner, repo := resolveOwner, resolveRepo
	if owner == "" {
		owner = cfg.Repo.Owner
	}
	if repo == "" {
		repo = cfg.Repo.Name
	}

	delay := resolveDelay
	if delay == 0 {
		if delay, err = cfg.Resolver.RetryDelayDuration(); err != nil {
			return err
		}
	}
	days := resolveDays
	if days == 0 {
		days = cfg.Resolver.DaysToTry
	}
	retries := resolveRetries
	if retries == 0 {
		retries = cfg.Resolver.MaxRetries
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	outcome := resolver.Resolve(ctx, owner, repo, resolver.Options{
		TagPrefix:  cfg.Release.TagPrefix,
		DaysToTry:  days,
		MaxRetries: retries,
		RetryDelay: delay,
		Logger:     logger,
	})

	out, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))

	// Exiting here would skip the deferred cancels and the logger sync in
	// PersistentPostRun; main applies the code after Execute returns.
	exitCode = exitCodeFor(outcome.Status)
	return nil
}

// exitCodeFor maps a resolution status to the process exit code:
// 0 success, 2 not_found, 1 error.
func exitCodeFor(status resolver.Status) int {
	switch status {
	case resolver.StatusSuccess:
		return 0
	case resolver.StatusNotFound:
		return 2
	default:
		return 1
	}
}
