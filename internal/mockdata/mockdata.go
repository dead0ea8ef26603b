// Package mockdata fabricates snapshot documents for page development and
// end-to-end tests, without touching the network.
package mockdata

import (
	"fmt"

	"etude/internal/daily"
	"etude/internal/etude"
)

// Scenario names accepted by Generate.
const (
	ScenarioSuccess        = "success"
	ScenarioPartialFailure = "partial_failure"
)

// canned payloads for the well-known builtin resources; anything else gets a
// generic placeholder.
var cannedPayloads = map[string]any{
	"random_quote": map[string]any{
		"content": "The obstacle is the way.",
		"author":  "Marcus Aurelius",
	},
	"sample_todo": map[string]any{
		"userId":    1,
		"id":        1,
		"title":     "delectus aut autem",
		"completed": false,
	},
	"greeting": map[string]any{
		"message": "Hello from etude one!",
		"version": "0.1",
	},
}

// Generate builds a complete mock snapshot for every registered etude.
// The partial_failure scenario fails the first resource of every section
// that has resources; everything else succeeds.
func Generate(reg *etude.Registry, scenario string) (daily.Snapshot, error) {
	if scenario != ScenarioSuccess && scenario != ScenarioPartialFailure {
		return nil, fmt.Errorf("unknown mock scenario %q", scenario)
	}

	snapshot := make(daily.Snapshot)

	for _, e := range reg.All() {
		resources := e.DailyResources()
		if len(resources) == 0 {
			snapshot[e.Name()] = daily.Result{
				Status:     daily.StatusNoOp,
				ActionsLog: []string{"No daily resources defined for this etude."},
			}
			continue
		}

		var (
			data   = make(map[string]any, len(resources))
			log    = make([]string, 0, len(resources))
			failed int
		)
		for i, res := range resources {
			if scenario == ScenarioPartialFailure && i == 0 {
				failed++
				log = append(log, fmt.Sprintf("Mock scenario 'partial_failure': Failed to fetch '%s'.", res.Name))
				continue
			}
			data[res.Name] = payloadFor(res.Name)
			log = append(log, fmt.Sprintf("Mock scenario '%s': Generated data for '%s'.", scenario, res.Name))
		}

		status := daily.StatusOK
		if failed > 0 {
			status = daily.StatusPartialSuccess
		}
		snapshot[e.Name()] = daily.Result{Status: status, Data: data, ActionsLog: log}
	}
	return snapshot, nil
}

func payloadFor(name string) any {
	if p, ok := cannedPayloads[name]; ok {
		return p
	}
	return map[string]any{"mock": true, "resource": name}
}
