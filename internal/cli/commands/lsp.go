package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/basinlabs/basin/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for IDE integration.

The server communicates over stdin/stdout using JSON-RPC. The project
root is taken from the client's initialization request (rootUri).`,
		Example: `  # Start LSP server (usually launched by an editor)
  basin lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, Logger(cmd.Context()))
			return server.Run()
		},
	}
}
