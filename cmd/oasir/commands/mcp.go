package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasir"
	"github.com/erraggy/oasir/internal/mcpserver"
)

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the compiler as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout.

The server exposes the compile, dependency_order, normalize_parameters and
reduce tools. It is configured through OASIR_* environment variables set in
the MCP client configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			Writef(cmd.OutOrStdout(), "oasir v%s\n", oasir.Version())
			Writef(cmd.OutOrStdout(), "%s\n", oasir.BuildInfo())
		},
	}
}
