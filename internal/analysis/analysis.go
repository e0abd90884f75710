// Package analysis runs the full per-document pipeline: normalization,
// reference extraction, scope scanning, syntax validation, and semantic
// validation against the project manifest. Every sub-pass is independently
// fault-tolerant; a failing pass contributes diagnostics, never an error.
package analysis

import (
	"fmt"

	"github.com/basinlabs/basin/internal/jinja"
	"github.com/basinlabs/basin/internal/project"
	"github.com/basinlabs/basin/internal/scope"
	"github.com/basinlabs/basin/internal/sqlcheck"
)

// Diagnostic sources, distinguishing the validator of origin.
const (
	SourceSyntax   = "basin-syntax"
	SourceSemantic = "basin-semantic"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a positioned finding. Start and End are byte offsets in the
// original document.
type Diagnostic struct {
	Start    int
	End      int
	Severity Severity
	Source   string
	Message  string
}

// Result is everything derived from one pass over a document. All ranges
// are original-document byte offsets.
type Result struct {
	Normalized  string
	Refs        []jinja.Ref
	CTEs        map[string]scope.CTE
	Aliases     map[string]scope.Alias
	Diagnostics []Diagnostic
}

// Analyze runs the pipeline over text. A nil manifest skips semantic
// validation only; syntax validation is skipped for macro-definition files.
func Analyze(text string, manifest *project.Manifest) *Result {
	res := &Result{
		Normalized: jinja.Normalize(text),
		Refs:       jinja.ExtractRefs(text),
		CTEs:       scope.ScanCTEs(text),
		Aliases:    scope.ScanAliases(text),
	}

	if !jinja.IsMacroFile(text) {
		if perr := sqlcheck.Check(res.Normalized); perr != nil {
			start := offsetAt(text, perr.Line, perr.Column)
			end := start + 1
			if end > len(text) {
				end = len(text)
			}
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Start:    start,
				End:      end,
				Severity: SeverityError,
				Source:   SourceSyntax,
				Message:  perr.Message,
			})
		}
	}

	if manifest != nil {
		res.Diagnostics = append(res.Diagnostics, validateRefs(res.Refs, manifest)...)
	}

	return res
}

// validateRefs checks every extracted reference against the manifest.
func validateRefs(refs []jinja.Ref, manifest *project.Manifest) []Diagnostic {
	var diags []Diagnostic
	for _, r := range refs {
		var msg string
		switch r.Kind {
		case jinja.RefModel:
			if _, ok := manifest.ResolveModel(r.Name); !ok {
				msg = fmt.Sprintf("Model '%s' not found in project.", r.Name)
			}
		case jinja.RefSource:
			if _, ok := manifest.Sources[r.Key()]; !ok {
				msg = fmt.Sprintf("Source '%s.%s' not found.", r.Name, r.Table)
			}
		case jinja.RefMacro:
			if _, ok := manifest.Macros[r.Name]; !ok {
				msg = fmt.Sprintf("Macro '%s' not found in project.", r.Name)
			}
		}
		if msg == "" {
			continue
		}
		diags = append(diags, Diagnostic{
			Start:    r.Start,
			End:      r.End,
			Severity: SeverityError,
			Source:   SourceSemantic,
			Message:  msg,
		})
	}
	return diags
}

// offsetAt converts a 1-based line/column pair to a byte offset, clamping
// to the document bounds.
func offsetAt(text string, line, col int) int {
	offset := 0
	for l := 1; l < line; l++ {
		nl := indexByte(text, offset, '\n')
		if nl < 0 {
			break
		}
		offset = nl + 1
	}
	offset += col - 1
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func indexByte(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
