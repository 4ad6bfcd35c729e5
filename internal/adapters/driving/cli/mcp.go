package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studybridge/zoe-cli/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Zoe's tools to MCP clients",
	Long: `Expose the ask and transcribe tools, plus session and upload
resources, to MCP-compatible agent hosts.

The default transport is stdio, which is what desktop assistants expect
in their server configuration:

  {
    "mcpServers": {
      "zoe": {
        "command": "/path/to/zoe",
        "args": ["mcp", "serve"]
      }
    }
  }

Pass --port to listen over streamable HTTP instead, for example when
debugging with the MCP Inspector:

  zoe mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Chat:          chatService,
		Sessions:      sessionService,
		Documents:     documentService,
		Transcription: transcriptionService,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
