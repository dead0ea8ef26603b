package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"etude/internal/daily"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixedNow pins the resolution clock so day tags are predictable:
// day 0 = data-2024-07-14, day 1 = data-2024-07-13, day 2 = data-2024-07-12.
var fixedNow = func() time.Time {
	return time.Date(2024, 7, 14, 12, 0, 0, 0, time.UTC)
}

// scriptedServer serves per-tag scripted responses and counts attempts.
type scriptedServer struct {
	t       *testing.T
	mu      sync.Mutex
	counts  map[string]int
	respond func(tag string, attempt int) (status int, body string)
	server  *httptest.Server
}

func newScriptedServer(t *testing.T, respond func(tag string, attempt int) (int, string)) *scriptedServer {
	s := &scriptedServer{t: t, counts: make(map[string]int), respond: respond}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		// /{owner}/{repo}/releases/download/{tag}/daily_etude_data.json
		require.Len(t, parts, 7)
		require.Equal(t, "releases", parts[3])
		require.Equal(t, "download", parts[4])
		require.Equal(t, AssetName, parts[6])
		tag := parts[5]

		s.mu.Lock()
		s.counts[tag]++
		attempt := s.counts[tag]
		s.mu.Unlock()

		status, body := s.respond(tag, attempt)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *scriptedServer) count(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[tag]
}

func (s *scriptedServer) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

const validBody = `{"one": {"status": "OK", "data": {"greeting": "hi"}, "actions_log": ["Successfully fetched resource 'greeting'."]}}`

func testOptions(s *scriptedServer) Options {
	return Options{
		DaysToTry:  7,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		BaseURL:    s.server.URL,
		Client:     s.server.Client(),
		Now:        fixedNow,
	}
}

func TestResolve_DayFallback(t *testing.T) {
	// Day 0 absent, day 1 permanently transient, day 2 published.
	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		switch tag {
		case "data-2024-07-14":
			return http.StatusNotFound, "Not Found"
		case "data-2024-07-13":
			return http.StatusInternalServerError, "boom"
		default:
			return http.StatusOK, validBody
		}
	})

	outcome := Resolve(context.Background(), "owner", "repo", testOptions(s))

	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, "data-2024-07-12", outcome.VersionTag)
	require.Contains(t, outcome.Data, "one")
	assert.Equal(t, daily.StatusOK, outcome.Data["one"].Status)

	// Absence burns no retries; the transient day consumes its full budget.
	assert.Equal(t, 1, s.count("data-2024-07-14"))
	assert.Equal(t, 3, s.count("data-2024-07-13"))
	assert.Equal(t, 1, s.count("data-2024-07-12"))
	assert.Equal(t, 5, outcome.Attempts)
}

func TestResolve_AllDaysAbsent(t *testing.T) {
	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		return http.StatusNotFound, "Not Found"
	})

	opts := testOptions(s)
	opts.DaysToTry = 3
	outcome := Resolve(context.Background(), "owner", "repo", opts)

	require.Equal(t, StatusNotFound, outcome.Status)
	assert.Nil(t, outcome.Data)
	assert.Empty(t, outcome.VersionTag)
	// One attempt per day, zero retries consumed.
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, s.total())
}

func TestResolve_PermanentTransientFailure(t *testing.T) {
	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		return http.StatusServiceUnavailable, "unavailable"
	})

	opts := testOptions(s)
	opts.DaysToTry = 2
	outcome := Resolve(context.Background(), "owner", "repo", opts)

	// Exhaustion via retries collapses into not_found, same as absence.
	require.Equal(t, StatusNotFound, outcome.Status)
	assert.Equal(t, 6, outcome.Attempts, "MaxRetries+1 attempts per day across 2 days")
	assert.Equal(t, 3, s.count("data-2024-07-14"))
	assert.Equal(t, 3, s.count("data-2024-07-13"))
}

func TestResolve_MalformedBodyIsTransient(t *testing.T) {
	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		if tag == "data-2024-07-14" {
			return http.StatusOK, "this is not json"
		}
		return http.StatusOK, validBody
	})

	outcome := Resolve(context.Background(), "owner", "repo", testOptions(s))

	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, "data-2024-07-13", outcome.VersionTag)
	// The malformed day consumed its full retry budget before advancing.
	assert.Equal(t, 3, s.count("data-2024-07-14"))
	assert.Equal(t, 4, outcome.Attempts)
}

func TestResolve_TransientThenRecovers(t *testing.T) {
	// Same day succeeds on the second attempt; no day is skipped.
	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		if attempt == 1 {
			return http.StatusBadGateway, "bad gateway"
		}
		return http.StatusOK, validBody
	})

	outcome := Resolve(context.Background(), "owner", "repo", testOptions(s))

	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, "data-2024-07-14", outcome.VersionTag)
	assert.Equal(t, 2, outcome.Attempts)
}

func TestResolve_Cancellation(t *testing.T) {
	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		return http.StatusInternalServerError, "boom"
	})

	opts := testOptions(s)
	opts.RetryDelay = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	outcome := Resolve(ctx, "owner", "repo", opts)

	require.Equal(t, StatusError, outcome.Status)
	assert.Less(t, time.Since(start), 5*time.Second, "cancellation must not wait out the retry delay")
}

func TestResolve_InvalidInputs(t *testing.T) {
	t.Run("missing repository identity", func(t *testing.T) {
		outcome := Resolve(context.Background(), "", "", Options{})
		assert.Equal(t, StatusError, outcome.Status)
	})

	t.Run("negative window", func(t *testing.T) {
		outcome := Resolve(context.Background(), "owner", "repo", Options{DaysToTry: -1})
		assert.Equal(t, StatusError, outcome.Status)
	})

	t.Run("invalid tag prefix", func(t *testing.T) {
		outcome := Resolve(context.Background(), "owner", "repo", Options{TagPrefix: "bad prefix"})
		assert.Equal(t, StatusError, outcome.Status)
	})
}

func TestResolve_RoundTrip(t *testing.T) {
	// A snapshot serialized by the build side parses back identically
	// through the resolver's success path.
	original := daily.Snapshot{
		"zero": {
			Status:     daily.StatusNoOp,
			ActionsLog: []string{"No daily resources defined for this etude."},
		},
		"one": {
			Status: daily.StatusPartialSuccess,
			Data: map[string]any{
				"random_quote": map[string]any{"content": "a quote", "length": float64(7)},
			},
			ActionsLog: []string{
				"Successfully fetched resource 'random_quote'.",
				"Failed to fetch resource 'sample_todo': HTTP 500",
			},
		},
	}
	body, err := json.Marshal(original)
	require.NoError(t, err)

	s := newScriptedServer(t, func(tag string, attempt int) (int, string) {
		return http.StatusOK, string(body)
	})

	outcome := Resolve(context.Background(), "owner", "repo", testOptions(s))

	require.Equal(t, StatusSuccess, outcome.Status)
	if diff := cmp.Diff(original, outcome.Data); diff != "" {
		t.Fatalf("round trip mismatch (-sent +resolved):\n%s", diff)
	}
}
