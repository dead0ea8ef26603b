// Package skin selects a visual theme from ambient context.
// A skin declares the conditions it suits as a set of tags; selection builds
// the current context from the clock plus caller-supplied tags and picks the
// most specific matching skin, deterministically.
package skin

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Widget roles a skin maps to concrete style classes.
const (
	RoleTitle    = "title"
	RoleBody     = "body"
	RoleCitation = "citation"
	RoleStatus   = "status"
)

// defaultWidgetClasses backs roles a skin does not override.
var defaultWidgetClasses = map[string]string{
	RoleTitle:    "default-title",
	RoleBody:     "default-body",
	RoleCitation: "default-citation",
	RoleStatus:   "default-status",
}

// Skin is a named bundle of stylesheet reference and widget-role class
// mapping, applicable when every one of its tags is present in the context.
// A skin with no tags is the designated fallback.
type Skin struct {
	Name          string
	Tags          []string
	Stylesheet    string
	WidgetClasses map[string]string
}

// WidgetClass resolves the style class for a widget role, falling back to
// the package defaults for roles the skin does not override.
func (s Skin) WidgetClass(role string) string {
	if c, ok := s.WidgetClasses[role]; ok {
		return c
	}
	return defaultWidgetClasses[role]
}

// matches reports whether every skin tag is present in the context set.
func (s Skin) matches(context map[string]bool) bool {
	for _, tag := range s.Tags {
		if !context[tag] {
			return false
		}
	}
	return true
}

// Registry holds the fixed set of registered skins for a page. Populated
// once at startup, read-only thereafter.
type Registry struct {
	mu    sync.RWMutex
	skins map[string]Skin
}

// NewRegistry returns an empty skin registry.
func NewRegistry() *Registry {
	return &Registry{skins: make(map[string]Skin)}
}

// Register adds a skin. Empty or duplicate names are configuration errors.
func (r *Registry) Register(s Skin) error {
	if s.Name == "" {
		return fmt.Errorf("skin name must be non-empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skins[s.Name]; exists {
		return fmt.Errorf("skin %q already registered", s.Name)
	}
	r.skins[s.Name] = s
	return nil
}

// All returns the registered skins sorted by name.
func (r *Registry) All() []Skin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Skin, 0, len(r.skins))
	for _, s := range r.skins {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ContextTags builds the context tag set for an instant: a time-of-day
// bucket, a day/night bucket, and a season bucket, plus any caller-supplied
// tags (e.g. "etude:one"). Pure function of its inputs; no I/O.
func ContextTags(now time.Time, extra ...string) []string {
	tags := []string{
		"time_of_day:" + timeOfDay(now),
		"day_period:" + dayPeriod(now),
		"season:" + season(now),
	}
	return append(tags, extra...)
}

func timeOfDay(now time.Time) string {
	switch h := now.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 18:
		return "afternoon"
	case h >= 18 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

func dayPeriod(now time.Time) string {
	if h := now.Hour(); h >= 6 && h < 18 {
		return "day"
	}
	return "night"
}

func season(now time.Time) string {
	switch now.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}

// Select picks the best-matching registered skin for the given context tags.
// A skin is a candidate when its tags are a subset of the context; the
// candidate with the most tags wins, ties breaking by lexicographically
// smallest name. With no candidates the empty-tag default skin is returned;
// its absence is a configuration error.
func (r *Registry) Select(contextTags []string) (Skin, error) {
	skins := r.All()
	if len(skins) == 0 {
		return Skin{}, fmt.Errorf("no skins registered")
	}

	context := make(map[string]bool, len(contextTags))
	for _, tag := range contextTags {
		context[tag] = true
	}

	var (
		best      Skin
		bestScore = -1
		found     bool
	)
	// All() is name-sorted, so the first skin seen at a given score is the
	// lexicographic tie-break winner.
	for _, s := range skins {
		if !s.matches(context) {
			continue
		}
		if score := len(s.Tags); score > bestScore {
			best = s
			bestScore = score
			found = true
		}
	}
	if found {
		return best, nil
	}

	// No candidate can only mean no empty-tag default was registered: the
	// default matches any context.
	return Skin{}, fmt.Errorf("no skin matches context %v and no default skin is registered", contextTags)
}
