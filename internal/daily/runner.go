// Package daily aggregates per-section fetch results into one dated snapshot.
// Tasks within a section run concurrently, but logs and data are assembled in
// registration order so the output is deterministic for identical outcomes.
package daily

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"etude/internal/etude"
	"etude/internal/fetch"
)

// Status classifies a section's aggregate outcome.
type Status string

const (
	StatusOK             Status = "OK"
	StatusPartialSuccess Status = "PARTIAL_SUCCESS"
	StatusFailed         Status = "FAILED"
	StatusNoOp           Status = "NO_OP"
)

// Result is the aggregated outcome for a single section.
// Data holds one entry per successful task; it is nil (JSON null) when no
// task produced a payload. ActionsLog is an append-only causal trace and is
// preserved verbatim downstream.
type Result struct {
	Status     Status         `json:"status"`
	Data       map[string]any `json:"data"`
	ActionsLog []string       `json:"actions_log"`
}

// Snapshot maps section identifiers to their results. Immutable once
// aggregation completes.
type Snapshot map[string]Result

// Runner executes the daily tasks for all registered etudes.
type Runner struct {
	registry *etude.Registry
	logger   *zap.Logger
}

// NewRunner creates a runner over the given registry. A nil logger is
// replaced with a nop logger.
func NewRunner(registry *etude.Registry, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{registry: registry, logger: logger}
}

// taskOutcome records one task's result, indexed by registration order.
type taskOutcome struct {
	value any
	err   error
}

// RunSection executes every task and folds the outcomes into one Result.
// A task failure never short-circuits the remaining tasks.
func (r *Runner) RunSection(ctx context.Context, resources []fetch.Resource) Result {
	if len(resources) == 0 {
		return Result{
			Status:     StatusNoOp,
			ActionsLog: []string{"No daily resources defined for this etude."},
		}
	}

	outcomes := make([]taskOutcome, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	for i, res := range resources {
		g.Go(func() error {
			value, err := res.Fetcher.Fetch(gctx)
			outcomes[i] = taskOutcome{value: value, err: err}
			return nil
		})
	}
	// Task errors are captured per outcome, never returned.
	_ = g.Wait()

	var (
		data      map[string]any
		log       = make([]string, 0, len(resources))
		succeeded int
		failed    int
	)
	for i, res := range resources {
		out := outcomes[i]
		if out.err != nil {
			log = append(log, fmt.Sprintf("Failed to fetch resource '%s': %v", res.Name, out.err))
			failed++
			continue
		}
		if data == nil {
			data = make(map[string]any, len(resources))
		}
		data[res.Name] = out.value
		log = append(log, fmt.Sprintf("Successfully fetched resource '%s'.", res.Name))
		succeeded++
	}

	status := StatusOK
	switch {
	case failed > 0 && succeeded > 0:
		status = StatusPartialSuccess
	case failed > 0:
		status = StatusFailed
	}

	return Result{Status: status, Data: data, ActionsLog: log}
}

// RunAll computes a Result for every registered etude and assembles the
// snapshot. Sections are independent; a fully failed section never stops the
// others.
func (r *Runner) RunAll(ctx context.Context) Snapshot {
	etudes := r.registry.All()
	runID := uuid.NewString()

	logger := r.logger.With(zap.String("run_id", runID))
	if len(etudes) == 0 {
		logger.Warn("no etudes registered, nothing to do")
		return Snapshot{}
	}
	logger.Info("executing daily tasks", zap.Int("etudes", len(etudes)))

	snapshot := make(Snapshot, len(etudes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range etudes {
		g.Go(func() error {
			result := r.RunSection(gctx, e.DailyResources())
			logger.Info("section finished",
				zap.String("etude", e.Name()),
				zap.String("status", string(result.Status)))

			mu.Lock()
			snapshot[e.Name()] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return snapshot
}
