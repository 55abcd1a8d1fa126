// ABOUTME: Root Cobra command for hkimport CLI.
// ABOUTME: Loads layered configuration before any subcommand runs.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/hkimport/internal/config"
)

var (
	cfg    *config.Config
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "hkimport",
	Short: "Apple Health export importer",
	Long: `hkimport loads an Apple Health XML export into a local SQLite database.

The export.xml inside an Apple Health archive routinely runs to multiple
gigabytes. hkimport streams it in one forward pass with bounded memory,
deduplicates against anything already in the database, and commits in
large batches. Re-importing the same archive, or a newer archive that
overlaps it, only adds the new entries.

QUICK START:

  $ unzip export.zip
  $ hkimport import apple_health_export/export.xml
  $ hkimport stats

WHAT GETS IMPORTED:

  Records           every measurement sample (heart rate, steps, sleep, ...)
  Workouts          sessions with events, statistics, and routes
  Correlations      grouped readings (e.g. blood pressure)
  Activity rings    daily move/exercise/stand summaries
  Clinical records  FHIR entries from connected providers
  Audiograms        hearing tests with per-frequency points
  Vision            glasses and contacts prescriptions

CONFIGURATION:

  Settings layer in this order (later wins):
    1. ~/.config/hkimport/config.json
    2. HKIMPORT_* environment variables (a .env file is honored)
    3. command-line flags

MCP INTEGRATION:

  Run 'hkimport mcp' to start the Model Context Protocol server so an AI
  assistant can query the imported data. The server is read-only.

DATA STORAGE:

  The database defaults to ~/.local/share/hkimport/health.db.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default ~/.local/share/hkimport/health.db)")
}
