package scope

import (
	"regexp"
	"strings"
)

// Alias binds a short name to a FROM/JOIN source expression. ExprStart and
// ExprEnd span the source expression in original-document bytes. Target is
// the best-effort resolved name: the model name of a nested ref call,
// "source.table" for a nested source call, or the trimmed expression text.
type Alias struct {
	Name      string
	ExprStart int
	ExprEnd   int
	Target    string
}

const sourceUnit = `\{\{.*?\}\}|\$\{.*?\}|` + "`[^`\n]+`" + `|[a-zA-Z_][a-zA-Z0-9_.]*`

var (
	reAlias = regexp.MustCompile(`(?is)\b(?:from|join)\s+((?:` + sourceUnit + `)+)\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)`)

	reInnerRef    = regexp.MustCompile(`ref\s*\(\s*['"]([a-zA-Z0-9_.]+)['"]`)
	reInnerSource = regexp.MustCompile(`source\s*\(\s*['"]([a-zA-Z0-9_.]+)['"]\s*,\s*['"]([a-zA-Z0-9_.]+)['"]`)

	exprTrimmer = strings.NewReplacer("{{", "", "}}", "", "${", "", "}", "")
)

// Keywords that follow a table expression and must not be mistaken for its
// alias.
var aliasBlocklist = map[string]bool{
	"on":        true,
	"where":     true,
	"group":     true,
	"order":     true,
	"having":    true,
	"limit":     true,
	"offset":    true,
	"inner":     true,
	"outer":     true,
	"left":      true,
	"right":     true,
	"full":      true,
	"cross":     true,
	"join":      true,
	"using":     true,
	"union":     true,
	"intersect": true,
	"except":    true,
	"select":    true,
	"when":      true,
	"then":      true,
	"case":      true,
	"end":       true,
	"lateral":   true,
	"natural":   true,
	"qualify":   true,
	"window":    true,
	"and":       true,
	"or":        true,
	"not":       true,
	"as":        true,
	"with":      true,
	"set":       true,
	"fetch":     true,
}

// ScanAliases finds FROM/JOIN clauses binding an alias to a source
// expression (dotted identifier, templating block, or interpolation).
// Candidates whose alias is a SQL keyword are skipped. When the same alias
// appears twice the later binding wins.
func ScanAliases(text string) map[string]Alias {
	aliases := make(map[string]Alias)

	for _, m := range reAlias.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[4]:m[5]]
		if aliasBlocklist[strings.ToLower(name)] {
			continue
		}
		expr := text[m[2]:m[3]]
		aliases[name] = Alias{
			Name:      name,
			ExprStart: m[2],
			ExprEnd:   m[3],
			Target:    deriveTarget(expr),
		}
	}

	return aliases
}

// deriveTarget resolves a source expression to a lookup name. Nested ref and
// source calls take priority; anything else falls back to heuristic
// trimming of templating delimiters and identifier quoting.
func deriveTarget(expr string) string {
	if m := reInnerRef.FindStringSubmatch(expr); m != nil {
		return m[1]
	}
	if m := reInnerSource.FindStringSubmatch(expr); m != nil {
		return m[1] + "." + m[2]
	}
	return strings.Trim(exprTrimmer.Replace(expr), " \t\r\n`'\"")
}
