package jinja

import (
	"regexp"
	"strings"
)

// Normalize rewrites every Jinja construct in text into placeholder SQL of
// exactly the same byte length, preserving every newline byte offset, so
// that positions reported by a SQL parser on the output map 1:1 onto the
// original document.
//
// ref and source invocations become synthesized identifiers that carry the
// referenced name (e.g. {{ ref('orders') }} -> __REF_orders padded with
// spaces); everything else is blanked out. A construct whose synthesized
// identifier does not fit, or whose newlines would be overwritten by it,
// falls back to the blank replacement instead of shifting the layout.
//
// Malformed or unterminated constructs are left untouched by their pass; a
// later pass may still blank the opening delimiter, but no pass invents
// content or raises an error.
func Normalize(text string) string {
	out := replaceAll(text, reRef, func(m string, groups []string) string {
		return fitIdent("__REF_"+groups[0], m)
	})
	out = replaceAll(out, reSource, func(m string, groups []string) string {
		return fitIdent("__SRC_"+groups[0]+"_"+groups[1], m)
	})
	out = reThis.ReplaceAllStringFunc(out, blank)
	out = reExpr.ReplaceAllStringFunc(out, blank)
	out = reStmt.ReplaceAllStringFunc(out, blank)
	out = reComment.ReplaceAllStringFunc(out, blank)
	out = reHashComment.ReplaceAllStringFunc(out, blank)
	out = reDataform.ReplaceAllStringFunc(out, blank)
	return out
}

// blank replaces every byte with a space, keeping newlines in place.
func blank(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
	return string(b)
}

// fitIdent substitutes ident for match, space-padded to the same byte
// length. Falls back to blank when ident would not fit or would overwrite a
// newline inside the construct.
func fitIdent(ident, match string) string {
	if len(ident) > len(match) || strings.Contains(match[:len(ident)], "\n") {
		return blank(match)
	}

	var b strings.Builder
	b.Grow(len(match))
	b.WriteString(ident)
	for i := len(ident); i < len(match); i++ {
		if match[i] == '\n' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// replaceAll is regexp.ReplaceAllStringFunc with access to capture groups.
func replaceAll(text string, re *regexp.Regexp, repl func(match string, groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])

		groups := make([]string, 0, len(m)/2-1)
		for g := 1; g < len(m)/2; g++ {
			if m[2*g] < 0 {
				groups = append(groups, "")
			} else {
				groups = append(groups, text[m[2*g]:m[2*g+1]])
			}
		}

		b.WriteString(repl(text[m[0]:m[1]], groups))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
