// Package jinja recognizes the Jinja templating constructs embedded in
// dbt-style SQL model files. It provides a length-preserving normalizer that
// rewrites templating into parser-safe SQL placeholders, and an extractor
// that recovers ref/source/macro references with their original byte ranges.
package jinja

import "regexp"

// Construct patterns. The ref and source forms capture their payload so the
// normalizer can synthesize identifiers and the extractor can resolve names.
// `(?s)` lets constructs span lines; \s in the patterns matches newlines.
var (
	reRef    = regexp.MustCompile(`(?s)\{\{\s*-?\s*ref\s*\(\s*['"]([a-zA-Z0-9_.]+)['"]\s*\)\s*-?\s*\}\}`)
	reSource = regexp.MustCompile(`(?s)\{\{\s*-?\s*source\s*\(\s*['"]([a-zA-Z0-9_.]+)['"]\s*,\s*['"]([a-zA-Z0-9_.]+)['"]\s*\)\s*-?\s*\}\}`)
	reThis   = regexp.MustCompile(`(?i)\{\{\s*this\s*\}\}`)

	reExpr    = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	reStmt    = regexp.MustCompile(`(?s)\{%.*?%\}`)
	reComment = regexp.MustCompile(`(?s)\{#.*?#\}`)

	// Host-language comments: a `#` starting a line or preceded by blanks.
	reHashComment = regexp.MustCompile(`(?m)^[ \t]*#.*$|[ \t]+#.*$`)

	// Dataform-style interpolation, e.g. ${self()}.
	reDataform = regexp.MustCompile(`(?s)\$\{.*?\}`)

	// Any identifier( call opening an expression or statement block,
	// optionally behind a `do` statement.
	reMacroCall = regexp.MustCompile(`(?s)\{[{%]\s*-?\s*(?:do\s+)?([a-zA-Z0-9_.]+)\s*\(`)

	reMacroDef = regexp.MustCompile(`(?s)\{%-?\s*macro\s+`)
)

// builtinCalls are call names that resolve inside dbt itself rather than to
// a user-defined macro.
var builtinCalls = map[string]bool{
	"ref":     true,
	"source":  true,
	"config":  true,
	"var":     true,
	"env_var": true,
}

// stmtKeywords are Jinja statement keywords that can be followed by an open
// parenthesis and must never be mistaken for a macro call.
var stmtKeywords = map[string]bool{
	"if":       true,
	"elif":     true,
	"else":     true,
	"for":      true,
	"set":      true,
	"call":     true,
	"filter":   true,
	"block":    true,
	"macro":    true,
	"endif":    true,
	"endfor":   true,
	"endmacro": true,
}

// IsMacroFile reports whether text contains a Jinja macro definition. Macro
// files are not standalone SQL and are exempt from syntax validation.
func IsMacroFile(text string) bool {
	return reMacroDef.MatchString(text)
}
