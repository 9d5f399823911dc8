package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions against the index.

Tools: ask, retrieve, index_stats. Resource: sercha-ask://manifest.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start a streamable HTTP server instead, for MCP Inspector or remote access.
The index is reloaded automatically when it is rebuilt.

Examples:
  # Stdio mode (default, for desktop assistants)
  sercha-ask mcp serve

  # HTTP mode
  sercha-ask mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "sercha-ask": {
        "command": "/path/to/sercha-ask",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("watch", true, "reload when the index is rebuilt")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	if askService == nil {
		return errNotConfigured("ask")
	}

	server, err := mcp.NewServer(&mcp.Ports{Ask: askService})
	if err != nil {
		return err
	}

	if watch {
		stop := watchIndex(cmd.Context(), indexDir, askService)
		defer stop()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// Stdout is reserved for JSON-RPC in stdio mode only.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
