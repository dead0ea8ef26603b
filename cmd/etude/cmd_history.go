package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"etude/internal/archive"
	"etude/internal/config"
)

var historyLimit int

// historyCmd lists snapshots recorded in the local archive.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List locally archived snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "archive is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tCREATED\tSECTIONS")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\n",
				e.Tag, e.CreatedAt.Format("2006-01-02 15:04:05"), len(e.Snapshot))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 30, "maximum entries to show")
}
