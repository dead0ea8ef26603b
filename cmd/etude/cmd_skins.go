package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"etude/internal/skin"
)

var skinTags []string

// skinsCmd reports which skin the current ambient context selects, for
// debugging skin definitions without loading the page.
var skinsCmd = &cobra.Command{
	Use:   "skins",
	Short: "Show the skin selected for the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := skin.DefaultRegistry()
		if err != nil {
			return err
		}

		contextTags := skin.ContextTags(time.Now(), skinTags...)
		selected, err := reg.Select(contextTags)
		if err != nil {
			return err
		}

		report := map[string]any{
			"context":    contextTags,
			"skin":       selected.Name,
			"stylesheet": selected.Stylesheet,
			"widget_classes": map[string]string{
				skin.RoleTitle:    selected.WidgetClass(skin.RoleTitle),
				skin.RoleBody:     selected.WidgetClass(skin.RoleBody),
				skin.RoleCitation: selected.WidgetClass(skin.RoleCitation),
				skin.RoleStatus:   selected.WidgetClass(skin.RoleStatus),
			},
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode skin report: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func init() {
	skinsCmd.Flags().StringSliceVar(&skinTags, "tag", nil, "extra context tags (e.g. etude:one)")
}
