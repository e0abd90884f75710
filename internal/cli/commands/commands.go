// Package commands implements the basin subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/basinlabs/basin/internal/config"
)

// LoggerKey stores the logger in the command context.
type LoggerKey struct{}

// Logger retrieves the logger from the command context.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// loadProjectConfig resolves the project from the --project-dir flag or an
// upward search, applying flag overrides.
func loadProjectConfig(cmd *cobra.Command) (*config.Project, error) {
	dir, _ := cmd.Flags().GetString("project-dir")
	return config.Load(dir, cmd.Root().PersistentFlags())
}
