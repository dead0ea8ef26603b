package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "etude.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
repo:
  owner: someuser
  name: trouble
release:
  tag_prefix: data-daily-
resolver:
  days_to_try: 3
  max_retries: 1
  retry_delay: 250ms
archive:
  enabled: true
  path: /tmp/etude.db
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "someuser", cfg.Repo.Owner)
		assert.Equal(t, "trouble", cfg.Repo.Name)
		assert.Equal(t, "data-daily-", cfg.Release.TagPrefix)
		assert.Equal(t, 3, cfg.Resolver.DaysToTry)
		assert.Equal(t, 1, cfg.Resolver.MaxRetries)
		assert.True(t, cfg.Archive.Enabled)
		assert.Equal(t, "/tmp/etude.db", cfg.Archive.Path)

		delay, err := cfg.Resolver.RetryDelayDuration()
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, delay)
	})

	t.Run("partial file keeps defaults elsewhere", func(t *testing.T) {
		path := writeConfig(t, `
repo:
  owner: someuser
  name: trouble
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "someuser", cfg.Repo.Owner)
		assert.Equal(t, "data-", cfg.Release.TagPrefix)
		assert.Equal(t, 7, cfg.Resolver.DaysToTry)
		assert.Equal(t, 2, cfg.Resolver.MaxRetries)
		assert.Equal(t, ".etude/archive.db", cfg.Archive.Path)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeConfig(t, "repo: [not a mapping")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestRetryDelayDuration(t *testing.T) {
	t.Run("empty defaults to one second", func(t *testing.T) {
		d, err := ResolverConfig{}.RetryDelayDuration()
		require.NoError(t, err)
		assert.Equal(t, time.Second, d)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ResolverConfig{RetryDelay: "soonish"}.RetryDelayDuration()
		assert.Error(t, err)
	})
}
