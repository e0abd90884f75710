// Package scope recovers local SQL scope from raw model text: CTE
// definitions and FROM/JOIN table aliases. Both scans are best-effort
// pattern heuristics over unparsed text and tolerate syntactically invalid
// surroundings, since documents are analyzed mid-edit.
package scope

import "regexp"

// CTE is a named parenthesized subquery. NameStart/NameEnd span the name
// token, BodyStart/BodyEnd span the body exclusive of the enclosing
// parentheses. All offsets are original-document bytes.
type CTE struct {
	Name      string
	NameStart int
	NameEnd   int
	BodyStart int
	BodyEnd   int
}

var reCTE = regexp.MustCompile(`(?i)([a-zA-Z_][a-zA-Z0-9_]*)\s+as\s*\(`)

// ScanCTEs finds every `name AS (` occurrence and resolves its body with a
// depth-balanced, quote-aware scan. An unterminated body yields no entry.
// When the same name is defined twice the later definition wins.
func ScanCTEs(text string) map[string]CTE {
	ctes := make(map[string]CTE)

	for _, m := range reCTE.FindAllStringSubmatchIndex(text, -1) {
		bodyEnd, ok := matchParen(text, m[1])
		if !ok {
			continue
		}
		name := text[m[2]:m[3]]
		ctes[name] = CTE{
			Name:      name,
			NameStart: m[2],
			NameEnd:   m[3],
			BodyStart: m[1],
			BodyEnd:   bodyEnd,
		}
	}

	return ctes
}

// matchParen scans forward from just after an opening parenthesis, tracking
// depth and suppressing parens inside single- or double-quoted runs. The
// same quote character closes the run; no escape handling. Returns the
// offset of the parenthesis that brings depth back to zero.
func matchParen(text string, start int) (int, bool) {
	depth := 1
	var quote byte

	for i := start; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
