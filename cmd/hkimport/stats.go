// ABOUTME: CLI command for showing row counts of the imported database.
// ABOUTME: Prints one line per table, empty tables faint.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/hkimport/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Show per-table row counts for the imported database.

EXAMPLES:

  hkimport stats
  hkimport stats --db /tmp/health.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cfg, cmd.OutOrStdout())
	},
}

func runStats(cfg *config.Config, out io.Writer) error {
	store, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	counts, err := store.TableCounts()
	if err != nil {
		return fmt.Errorf("failed to count tables: %w", err)
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintf(out, "%s\n", store.Path())
	var total int64
	for _, tc := range counts {
		if tc.Count == 0 {
			faint.Fprintf(out, "  %-22s %d\n", tc.Table, tc.Count)
		} else {
			fmt.Fprintf(out, "  %-22s %d\n", tc.Table, tc.Count)
		}
		total += tc.Count
	}
	faint.Fprintf(out, "  %d rows total\n", total)
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
