// Package cmd wires the pb-mcp command line interface.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pb-mcp",
	Short: "MCP server for PocketBase",
	Long: `pb-mcp bridges the Model Context Protocol and PocketBase.

It exposes authentication, collection management, record and user CRUD,
file URL helpers and a raw request escape hatch as MCP tools, speaking
JSON-RPC on stdio. Point an MCP-capable client at the binary and it can
operate any PocketBase instance.

Without a subcommand the server starts immediately.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()
	return rootCmd.Execute()
}
