package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basinlabs/basin/internal/analysis"
	"github.com/basinlabs/basin/internal/project"
)

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate every model file in the project",
		Long: `Run the full analysis pipeline over every model file and print
syntax and reference diagnostics. Exits non-zero when any model has a
finding.`,
		Example: `  # Lint the project in the current directory
  basin lint

  # Lint a specific project
  basin lint --project-dir ~/src/jaffle_shop`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := Logger(cmd.Context())

			cfg, err := loadProjectConfig(cmd)
			if err != nil {
				return err
			}
			manifest, err := project.Load(cfg, logger)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(manifest.Models))
			for name := range manifest.Models {
				names = append(names, name)
			}
			sort.Strings(names)

			findings := 0
			for _, name := range names {
				path := manifest.Models[name]
				content, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("skipping unreadable model", "path", path, "error", err)
					continue
				}

				text := string(content)
				res := analysis.Analyze(text, manifest)
				for _, d := range res.Diagnostics {
					line, col := lineColAt(text, d.Start)
					rel, relErr := filepath.Rel(cfg.Root, path)
					if relErr != nil {
						rel = path
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: [%s] %s\n", rel, line, col, d.Source, d.Message)
					findings++
				}
			}

			if findings > 0 {
				return fmt.Errorf("%d finding(s) in %d model(s)", findings, len(names))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d model(s), no findings\n", len(names))
			return nil
		},
	}
}

// lineColAt converts a byte offset to a 1-based line/column pair.
func lineColAt(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	line := strings.Count(text[:offset], "\n") + 1
	col := offset - strings.LastIndex(text[:offset], "\n")
	return line, col
}
