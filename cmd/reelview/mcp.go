package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/vadimtrunov/reelview/internal/mcp"
	"github.com/vadimtrunov/reelview/internal/watchlist"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout so MCP clients can browse
// movies and keep a watchlist for the session.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, svc, err := setup(cmd)
			if err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Deps{
				Catalog:   svc,
				Watchlist: watchlist.New(),
				Version:   version,
			}, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
