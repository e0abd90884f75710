package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/basinlabs/basin/internal/project"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the project's models, seeds, sources, and macros",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProjectConfig(cmd)
			if err != nil {
				return err
			}
			manifest, err := project.Load(cfg, Logger(cmd.Context()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSection := func(header string, names []string) {
				fmt.Fprintf(out, "%s (%d):\n", header, len(names))
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}

			printSection("models", keys(manifest.Models))
			printSection("seeds", keys(manifest.Seeds))
			printSection("sources", keys(manifest.Sources))

			macros := make([]string, 0, len(manifest.Macros))
			for name := range manifest.Macros {
				macros = append(macros, name)
			}
			printSection("macros", macros)
			return nil
		},
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
