// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server; logs go to a file since stdout carries the protocol.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexng353/uplifting/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs are written to log_file from
the config, or to mcp.log in the data directory.

CONFIGURATION:

  {
    "mcpServers": {
      "uplifting": { "command": "uplifting", "args": ["mcp"] }
    }
  }

AVAILABLE TOOLS:

  list_gyms         List stored gyms
  add_gym           Add a gym
  rename_gym        Rename a gym
  delete_gym        Delete a gym
  set_current_gym   Select or clear the current gym
  current_gym       Show the current gym
  nearby_gym        Find the gym near a position
  suggest_set       Suggest reps and weight for a set
  suggest_profile   Suggest the profile for an exercise at a gym
  record_profile    Remember the profile for an exercise at a gym
  bootstrap         Seed the local store from the server

AVAILABLE RESOURCES:

  uplifting://gyms      Stored gyms
  uplifting://summary   Local data summary`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(application, version)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("mcp server starting", "backend", cfg.GetBackend(), "authenticated", cfg.IsAuthenticated())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
