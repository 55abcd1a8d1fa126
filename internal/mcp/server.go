// ABOUTME: MCP server setup over an imported health database.
// ABOUTME: Wraps the MCP server with a read-only storage connection.
package mcp

import (
	"context"

	"github.com/harperreed/hkimport/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access. Every tool is read-only;
// the importer stays the single writer.
type Server struct {
	mcpServer *mcp.Server
	store     *storage.DB
}

// NewServer creates a new MCP server over the given store.
func NewServer(store *storage.DB) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "hkimport",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
