// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based, read-only MCP server over the imported data.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/hkimport/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to query your imported health data
through a standardized protocol. The server communicates via stdin/stdout
and never writes to the database.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "hkimport": {
        "command": "hkimport",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_record_types     Record types in the database with counts
  query_records         Records of one type, optional date range
  list_workouts         Recent workouts
  get_activity_summary  Activity rings for one calendar day
  import_stats          Per-table row counts

AVAILABLE RESOURCES:

  hkimport://profile        The export owner's profile
  hkimport://record-types   Record type inventory
  hkimport://stats          Per-table row counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cfg.OpenStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		server, err := mcp.NewServer(store)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
