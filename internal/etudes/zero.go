// Package etudes contains the built-in site sections and wires them into a
// registry at startup.
package etudes

import (
	"etude/internal/etude"
	"etude/internal/fetch"
)

// Zero is the meta section: project overview and per-section status. It has
// no daily resources of its own, so its daily result is always NO_OP; the
// page renders the other sections' statuses from the snapshot instead.
type Zero struct{}

func (Zero) Name() string { return "zero" }

func (Zero) Description() string {
	return "Project overview and metrics for all registered etudes."
}

func (Zero) DailyResources() []fetch.Resource { return nil }

// RegisterBuiltins populates a registry with the stock sections.
func RegisterBuiltins(reg *etude.Registry) error {
	for _, e := range []etude.Etude{Zero{}, One{}} {
		if err := reg.Register(e); err != nil {
			return err
		}
	}
	return nil
}
