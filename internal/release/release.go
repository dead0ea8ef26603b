// Package release derives the date-tagged identity of a published snapshot.
package release

import (
	"fmt"
	"regexp"
	"time"
)

// DefaultTagPrefix is the conventional prefix for daily data tags.
const DefaultTagPrefix = "data-"

// validTagPattern is a deliberately narrow subset of what Git allows in a
// ref name. Anything our tags need is covered; anything surprising is not.
var validTagPattern = regexp.MustCompile(`^[a-zA-Z0-9_./-]+$`)

// Manager generates and validates release tags for dated snapshots.
type Manager struct {
	prefix string
}

// NewManager validates the prefix and returns a Manager. An empty prefix
// falls back to DefaultTagPrefix.
func NewManager(prefix string) (*Manager, error) {
	if prefix == "" {
		prefix = DefaultTagPrefix
	}
	if !validTagPattern.MatchString(prefix) {
		return nil, fmt.Errorf("invalid prefix %q: contains characters not allowed in a tag", prefix)
	}
	return &Manager{prefix: prefix}, nil
}

// Prefix returns the configured tag prefix.
func (m *Manager) Prefix() string {
	return m.prefix
}

// Tag returns the release tag for a calendar date, e.g. "data-2024-07-14".
// The date is interpreted in UTC.
func (m *Manager) Tag(date time.Time) string {
	return m.prefix + date.UTC().Format("2006-01-02")
}

// IsValidTag reports whether a tag name is well-formed.
func (m *Manager) IsValidTag(tag string) bool {
	return tag != "" && validTagPattern.MatchString(tag)
}

// Info holds the publishable identity of one day's snapshot.
type Info struct {
	TagName     string `json:"tag_name"`
	ReleaseName string `json:"release_name"`
}

// Info derives the tag and human-readable release title for a date.
func (m *Manager) Info(date time.Time) (Info, error) {
	tag := m.Tag(date)
	if !m.IsValidTag(tag) {
		return Info{}, fmt.Errorf("generated tag %q is invalid", tag)
	}
	return Info{
		TagName:     tag,
		ReleaseName: "Daily Etude Data - " + tag,
	}, nil
}
