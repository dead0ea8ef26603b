// Package etude defines the section abstraction and its process-wide registry.
// Sections register explicitly at startup; there is no import-side-effect
// discovery.
package etude

import (
	"fmt"
	"sort"
	"sync"

	"etude/internal/fetch"
)

// Etude is one independently aggregated unit of site content.
type Etude interface {
	// Name uniquely identifies the section. It becomes the top-level key of
	// the published snapshot.
	Name() string
	Description() string
	// DailyResources lists the fetch tasks to run for this section, in the
	// order their results should appear in the action log. An empty list is
	// valid and yields a NO_OP result.
	DailyResources() []fetch.Resource
}

// Registry holds the registered etudes. Populated once at startup, read-only
// afterwards.
type Registry struct {
	mu     sync.RWMutex
	etudes map[string]Etude
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{etudes: make(map[string]Etude)}
}

// Register adds an etude. Empty or duplicate names are configuration errors.
func (r *Registry) Register(e Etude) error {
	if e == nil {
		return fmt.Errorf("cannot register nil etude")
	}
	if e.Name() == "" {
		return fmt.Errorf("etude name must be non-empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.etudes[e.Name()]; exists {
		return fmt.Errorf("etude %q already registered", e.Name())
	}
	r.etudes[e.Name()] = e
	return nil
}

// Get returns the etude with the given name, if registered.
func (r *Registry) Get(name string) (Etude, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.etudes[name]
	return e, ok
}

// Len returns the number of registered etudes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.etudes)
}

// All returns the registered etudes with "zero" first when present, then the
// rest alphabetically by name.
func (r *Registry) All() []Etude {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Etude, 0, len(r.etudes))
	for _, e := range r.etudes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() == "zero" {
			return true
		}
		if out[j].Name() == "zero" {
			return false
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}
