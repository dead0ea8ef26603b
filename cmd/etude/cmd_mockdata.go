package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"etude/internal/mockdata"
)

var mockScenario string

// mockDataCmd fabricates a snapshot document for page development and
// end-to-end tests.
var mockDataCmd = &cobra.Command{
	Use:   "mock-data",
	Short: "Generate a synthetic snapshot for a test scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := builtinRegistry()
		if err != nil {
			return err
		}

		snapshot, err := mockdata.Generate(registry, mockScenario)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mock snapshot: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func init() {
	mockDataCmd.Flags().StringVar(&mockScenario, "scenario", mockdata.ScenarioSuccess,
		"scenario to generate (success, partial_failure)")
}
