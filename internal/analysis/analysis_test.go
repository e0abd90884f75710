package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basinlabs/basin/internal/project"
)

func testManifest() *project.Manifest {
	return &project.Manifest{
		Models:  map[string]string{"orders": "/p/models/orders.sql"},
		Seeds:   map[string]string{"country_codes": "/p/seeds/country_codes.csv"},
		Sources: map[string]string{"raw.events": "/p/models/schema.yml"},
		Macros:  map[string]project.MacroDef{"audit_log": {Path: "/p/macros/audit.sql", Line: 0}},
	}
}

func bySource(diags []Diagnostic, source string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Source == source {
			out = append(out, d)
		}
	}
	return out
}

func TestAnalyze_ResolvedRefsProduceNoDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"model", "select * from {{ ref('orders') }}"},
		{"seed", "select * from {{ ref('country_codes') }}"},
		{"source", "select * from {{ source('raw', 'events') }}"},
		{"macro", "select {{ audit_log('x') }} from t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Analyze(tt.text, testManifest())
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestAnalyze_UnresolvedRef(t *testing.T) {
	text := "select * from {{ ref('missing') }}"

	res := Analyze(text, testManifest())
	require.Len(t, res.Diagnostics, 1)

	d := res.Diagnostics[0]
	assert.Equal(t, SourceSemantic, d.Source)
	assert.Equal(t, SeverityError, d.Severity)
	assert.Contains(t, d.Message, "missing")
	assert.Equal(t, "{{ ref('missing') }}", text[d.Start:d.End])
}

func TestAnalyze_UnresolvedSourceAndMacro(t *testing.T) {
	res := Analyze("select {{ do_thing(1) }} from {{ source('raw', 'nope') }}", testManifest())

	diags := bySource(res.Diagnostics, SourceSemantic)
	require.Len(t, diags, 2)

	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, strings.Join(messages, "\n"), "Macro 'do_thing' not found")
	assert.Contains(t, strings.Join(messages, "\n"), "Source 'raw.nope' not found")
}

func TestAnalyze_NoManifestSkipsSemantic(t *testing.T) {
	res := Analyze("select * from {{ ref('missing') }}", nil)
	assert.Empty(t, bySource(res.Diagnostics, SourceSemantic))
}

func TestAnalyze_SyntaxError(t *testing.T) {
	res := Analyze("select * frmo orders", nil)

	diags := bySource(res.Diagnostics, SourceSyntax)
	require.Len(t, diags, 1)
	assert.Equal(t, diags[0].Start+1, diags[0].End)
	assert.LessOrEqual(t, diags[0].End, len("select * frmo orders"))
}

func TestAnalyze_MacroFileSuppressesSyntax(t *testing.T) {
	text := "{% macro helper(x) %}\nnot even close to ((( sql\n{% endmacro %}"

	res := Analyze(text, testManifest())
	assert.Empty(t, bySource(res.Diagnostics, SourceSyntax))
}

func TestAnalyze_CachesScopeTables(t *testing.T) {
	text := "with stg as (select 1)\nselect * from stg s join {{ ref('orders') }} o on 1=1"

	res := Analyze(text, testManifest())
	assert.Contains(t, res.CTEs, "stg")
	assert.Contains(t, res.Aliases, "s")
	assert.Contains(t, res.Aliases, "o")
	assert.Equal(t, "orders", res.Aliases["o"].Target)
}

func TestAnalyze_Idempotent(t *testing.T) {
	text := "with stg as (select 1)\nselect * from {{ ref('missing') }} m"

	first := Analyze(text, testManifest())
	second := Analyze(text, testManifest())
	assert.Equal(t, first, second)
}

func TestAnalyze_EditConvergence(t *testing.T) {
	base := "select * from {{ ref('orders') }}"
	edited := base + " union all select * from {{ ref('y') }}"

	before := Analyze(base, testManifest())
	during := Analyze(edited, testManifest())
	after := Analyze(base, testManifest())

	assert.Len(t, during.Refs, 2)
	assert.Equal(t, before.Refs, after.Refs)
	assert.Equal(t, before.Diagnostics, after.Diagnostics)
}
