package lsp

import (
	"fmt"
	"os"
	"strings"

	"github.com/basinlabs/basin/internal/jinja"
	"github.com/basinlabs/basin/internal/project"
)

// macroPreviewLines caps how much of a macro file a hover shows.
const macroPreviewLines = 15

// getHover describes the symbol at the cursor. Priority mirrors definition
// resolution: CTE names, aliases, an alias.column fallback, then project
// references.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.Analysis == nil {
		return nil
	}

	offset := doc.PositionToOffset(params.Position)

	if word, wordStart, _ := doc.WordAt(offset); word != "" {
		if cte, ok := doc.Analysis.CTEs[word]; ok {
			return markdownHover(fmt.Sprintf("```sql\n%s\n```", doc.Content[cte.BodyStart:cte.BodyEnd]))
		}

		if alias, ok := doc.Analysis.Aliases[word]; ok {
			return markdownHover(s.describeAlias(doc, alias.Target, alias.ExprStart, alias.ExprEnd))
		}

		// alias.column: the word is preceded by a dot and an alias name.
		if wordStart > 0 && doc.Content[wordStart-1] == '.' {
			if alias, _, _ := doc.WordAt(wordStart - 1); alias != "" {
				if def, ok := doc.Analysis.Aliases[alias]; ok {
					if cte, ok := doc.Analysis.CTEs[def.Target]; ok {
						return markdownHover(fmt.Sprintf("**Column of CTE** `%s` (alias `%s`)\n```sql\n%s\n```",
							def.Target, alias, doc.Content[cte.BodyStart:cte.BodyEnd]))
					}
					return markdownHover(fmt.Sprintf("**Column of Source** (alias `%s`)\n```sql\n%s\n```",
						alias, doc.Content[def.ExprStart:def.ExprEnd]))
				}
			}
		}
	}

	manifest := s.registry.Snapshot()
	for _, r := range doc.Analysis.Refs {
		if !r.Contains(offset) {
			continue
		}
		switch r.Kind {
		case jinja.RefModel:
			if manifest != nil && manifest.IsSeed(r.Name) {
				return markdownHover(fmt.Sprintf("**Seed**: `%s`", r.Name))
			}
			return markdownHover(fmt.Sprintf("**Model**: `%s`", r.Name))
		case jinja.RefSource:
			return markdownHover(fmt.Sprintf("**Source**: `%s.%s`", r.Name, r.Table))
		case jinja.RefMacro:
			return markdownHover(s.describeMacro(manifest, r.Name))
		}
	}

	return nil
}

// describeAlias renders the aliased target: a CTE body when the target is a
// local CTE, the raw source expression otherwise.
func (s *Server) describeAlias(doc *Document, target string, exprStart, exprEnd int) string {
	if cte, ok := doc.Analysis.CTEs[target]; ok {
		return fmt.Sprintf("**Alias for CTE** `%s`\n```sql\n%s\n```", target, doc.Content[cte.BodyStart:cte.BodyEnd])
	}
	return fmt.Sprintf("**Alias Definition**:\n```sql\n%s\n```", doc.Content[exprStart:exprEnd])
}

// describeMacro labels a macro and, when its declaring file is readable,
// appends the opening lines of the definition. An unreadable file just
// drops the snippet.
func (s *Server) describeMacro(manifest *project.Manifest, name string) string {
	msg := fmt.Sprintf("**Macro**: `%s`", name)
	if manifest == nil {
		return msg
	}
	def, ok := manifest.Macros[name]
	if !ok {
		return msg
	}

	content, err := os.ReadFile(def.Path)
	if err != nil {
		s.logger.Warn("Cannot read macro file for hover", "path", def.Path, "error", err)
		return msg
	}

	lines := strings.Split(string(content), "\n")
	if def.Line >= len(lines) {
		return msg
	}
	end := def.Line + macroPreviewLines
	if end > len(lines) {
		end = len(lines)
	}
	return msg + "\n\n```jinja\n" + strings.Join(lines[def.Line:end], "\n") + "\n```"
}

func markdownHover(value string) *Hover {
	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: value,
		},
	}
}
