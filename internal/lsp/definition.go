package lsp

import "github.com/basinlabs/basin/internal/jinja"

// getDefinition resolves the symbol at the cursor. Resolution priority:
// CTE names, then table aliases (jumping to the aliased expression), then
// project references resolved through the manifest.
func (s *Server) getDefinition(params DefinitionParams) *Location {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.Analysis == nil {
		return nil
	}

	offset := doc.PositionToOffset(params.Position)

	if word, _, _ := doc.WordAt(offset); word != "" {
		if cte, ok := doc.Analysis.CTEs[word]; ok {
			return &Location{
				URI:   doc.URI,
				Range: doc.RangeFor(cte.NameStart, cte.NameEnd),
			}
		}
		if alias, ok := doc.Analysis.Aliases[word]; ok {
			return &Location{
				URI:   doc.URI,
				Range: doc.RangeFor(alias.ExprStart, alias.ExprEnd),
			}
		}
	}

	manifest := s.registry.Snapshot()
	if manifest == nil {
		return nil
	}

	for _, r := range doc.Analysis.Refs {
		if !r.Contains(offset) {
			continue
		}
		switch r.Kind {
		case jinja.RefModel:
			if path, ok := manifest.ResolveModel(r.Name); ok {
				return &Location{URI: PathToURI(path)}
			}
		case jinja.RefSource:
			if path, ok := manifest.Sources[r.Key()]; ok {
				return &Location{URI: PathToURI(path)}
			}
		case jinja.RefMacro:
			if def, ok := manifest.Macros[r.Name]; ok {
				pos := Position{Line: uint32(def.Line)}
				return &Location{
					URI:   PathToURI(def.Path),
					Range: Range{Start: pos, End: pos},
				}
			}
		}
	}

	return nil
}
