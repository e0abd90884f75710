package lsp

import "github.com/basinlabs/basin/internal/analysis"

// analyzeAndPublish runs the full analysis pipeline over the document,
// caches the derived state for hover and navigation, and publishes merged
// syntax and semantic diagnostics. Each edit publishes once; the last
// publish wins.
func (s *Server) analyzeAndPublish(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	res := analysis.Analyze(doc.Content, s.registry.Snapshot())
	s.documents.SetAnalysis(uri, res)

	diagnostics := make([]Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diagnostics = append(diagnostics, Diagnostic{
			Range:    doc.RangeFor(d.Start, d.End),
			Severity: toLSPSeverity(d.Severity),
			Source:   d.Source,
			Message:  d.Message,
		})
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// toLSPSeverity maps pipeline severities onto the protocol's.
func toLSPSeverity(sev analysis.Severity) DiagnosticSeverity {
	if sev == analysis.SeverityWarning {
		return DiagnosticSeverityWarning
	}
	return DiagnosticSeverityError
}
