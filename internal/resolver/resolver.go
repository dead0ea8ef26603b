// Package resolver locates and retrieves the newest usable published
// snapshot. It searches backward across a bounded window of calendar days,
// retrying transient failures with a fixed delay, and reports exactly one of
// three terminal outcomes: success, not_found, or error.
//
// Absence (HTTP 404) and transient failure are distinct classes with
// different policies: an absent day is abandoned immediately because
// publication can legitimately lag, while a transiently failing day is
// retried up to its attempt budget before the search moves one day older.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"etude/internal/daily"
	"etude/internal/release"
)

// Defaults for the resolver call surface. All Options fields are optional.
const (
	DefaultBaseURL    = "https://github.com"
	DefaultDaysToTry  = 7
	DefaultMaxRetries = 2
	DefaultRetryDelay = time.Second

	// AssetName is the fixed file name of the published snapshot asset.
	AssetName = "daily_etude_data.json"

	maxBodySize = 1 << 20
)

// Status is the terminal outcome class of a resolution.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Options tunes a resolution. Zero values take the stated defaults.
type Options struct {
	TagPrefix  string        // default "data-"
	DaysToTry  int           // default 7
	MaxRetries int           // retries per day after the first attempt, default 2
	RetryDelay time.Duration // fixed delay between attempts, default 1s
	BaseURL    string        // release host, overridable for tests
	Client     *http.Client
	Now        func() time.Time // clock, overridable for tests
	Logger     *zap.Logger
}

// Outcome is the single result of a resolution.
// VersionTag is the tag actually used for the successful fetch, so callers
// can report it and bust caches. Attempts counts every retrieval attempt
// made, across all days.
type Outcome struct {
	Status     Status         `json:"status"`
	Data       daily.Snapshot `json:"data,omitempty"`
	VersionTag string         `json:"version_tag,omitempty"`
	Message    string         `json:"message"`
	Attempts   int            `json:"attempts"`
}

// state is the phase of the per-resolution machine.
type state int

const (
	stateTryingDay state = iota // first attempt for the current day
	stateRetrying               // waiting out the delay, then reattempting
	stateAdvancing              // moving one day older
	stateSuccess
	stateExhausted
)

// attemptClass is how one retrieval attempt ended.
type attemptClass int

const (
	classFound     attemptClass = iota // body retrieved and parsed
	classAbsent                        // resource does not exist (404)
	classTransient                     // network error, server error, or bad body
)

// resolution carries the machine's mutable state.
type resolution struct {
	owner, repo string
	opts        Options
	mgr         *release.Manager
	logger      *zap.Logger

	state       state
	day         int // offset back from today
	dayAttempts int // attempts consumed for the current day
	attempts    int // total attempts across all days

	data daily.Snapshot
	tag  string
}

// Resolve searches backward from today (UTC) for a retrievable snapshot.
// The context aborts in-flight requests and pending retry delays; a
// cancelled resolution ends with StatusError.
func Resolve(ctx context.Context, owner, repo string, opts Options) Outcome {
	if owner == "" || repo == "" {
		return Outcome{Status: StatusError, Message: "repository owner and name are required"}
	}
	if opts.DaysToTry < 0 || opts.MaxRetries < 0 {
		return Outcome{Status: StatusError, Message: "daysToTry and maxRetries must not be negative"}
	}
	applyDefaults(&opts)

	mgr, err := release.NewManager(opts.TagPrefix)
	if err != nil {
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	r := &resolution{
		owner:  owner,
		repo:   repo,
		opts:   opts,
		mgr:    mgr,
		logger: opts.Logger,
		state:  stateTryingDay,
	}
	return r.run(ctx)
}

func applyDefaults(opts *Options) {
	if opts.TagPrefix == "" {
		opts.TagPrefix = release.DefaultTagPrefix
	}
	if opts.DaysToTry == 0 {
		opts.DaysToTry = DefaultDaysToTry
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
}

// run drives the state machine to a terminal outcome.
func (r *resolution) run(ctx context.Context) Outcome {
	for {
		switch r.state {
		case stateTryingDay:
			r.dayAttempts = 0
			if err := r.attemptCurrentDay(ctx); err != nil {
				return r.cancelled(err)
			}

		case stateRetrying:
			if err := r.waitRetryDelay(ctx); err != nil {
				return r.cancelled(err)
			}
			if err := r.attemptCurrentDay(ctx); err != nil {
				return r.cancelled(err)
			}

		case stateAdvancing:
			r.day++
			if r.day >= r.opts.DaysToTry {
				r.state = stateExhausted
			} else {
				r.state = stateTryingDay
			}

		case stateSuccess:
			return Outcome{
				Status:     StatusSuccess,
				Data:       r.data,
				VersionTag: r.tag,
				Message:    fmt.Sprintf("Snapshot found under tag %q.", r.tag),
				Attempts:   r.attempts,
			}

		case stateExhausted:
			// Days exhausted via absence and via retries collapse into the
			// same terminal outcome; downstream UI depends on there being
			// exactly three.
			return Outcome{
				Status:   StatusNotFound,
				Message:  fmt.Sprintf("No snapshot found within the last %d day(s).", r.opts.DaysToTry),
				Attempts: r.attempts,
			}
		}
	}
}

// attemptCurrentDay performs one retrieval attempt for the current day and
// applies the transition guards. A non-nil error means the context ended.
func (r *resolution) attemptCurrentDay(ctx context.Context) error {
	tag := r.mgr.Tag(r.opts.Now().UTC().AddDate(0, 0, -r.day))
	r.dayAttempts++
	r.attempts++

	class, snapshot, err := r.fetchOnce(ctx, tag)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	switch class {
	case classFound:
		r.data = snapshot
		r.tag = tag
		r.state = stateSuccess

	case classAbsent:
		// Not published for this day; not a failure, no retries burnt.
		r.logger.Debug("snapshot absent", zap.String("tag", tag))
		r.state = stateAdvancing

	case classTransient:
		r.logger.Debug("transient retrieval failure",
			zap.String("tag", tag),
			zap.Int("attempt", r.dayAttempts),
			zap.Error(err))
		if r.dayAttempts >= r.opts.MaxRetries+1 {
			r.state = stateAdvancing
		} else {
			r.state = stateRetrying
		}
	}
	return nil
}

// fetchOnce retrieves and parses one day's asset, classifying the outcome.
func (r *resolution) fetchOnce(ctx context.Context, tag string) (attemptClass, daily.Snapshot, error) {
	url := fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		r.opts.BaseURL, r.owner, r.repo, tag, AssetName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return classTransient, nil, err
	}

	resp, err := r.opts.Client.Do(req)
	if err != nil {
		return classTransient, nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return classAbsent, nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return classTransient, nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return classTransient, nil, fmt.Errorf("reading body: %w", err)
	}

	var snapshot daily.Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		// Malformed body counts as a retrieval failure for this day.
		return classTransient, nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return classFound, snapshot, nil
}

// waitRetryDelay sleeps the fixed retry delay, abortable by the context.
func (r *resolution) waitRetryDelay(ctx context.Context) error {
	timer := time.NewTimer(r.opts.RetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *resolution) cancelled(err error) Outcome {
	msg := "resolution aborted"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "resolution timed out"
	}
	return Outcome{
		Status:   StatusError,
		Message:  fmt.Sprintf("%s: %v", msg, err),
		Attempts: r.attempts,
	}
}
