// Package sqlcheck validates normalized model SQL with the PostgreSQL
// parser. The parser is a best-effort oracle: documents are checked
// mid-edit, so a parse failure is an expected outcome reported as a
// positioned error, never a pipeline failure.
package sqlcheck

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	pg_query_parser "github.com/pganalyze/pg_query_go/v6/parser"
)

// ParseError is a syntax failure with a 1-based position valid against the
// text that was checked. Normalization preserves layout, so the position is
// equally valid against the original document.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

var reLineCol = regexp.MustCompile(`(?i)line (\d+), column (\d+)`)

// Check parses sql and returns a positioned error on failure, nil on
// success. The position comes from the parser's cursor when present, from a
// "Line X, Column Y" message pattern otherwise, and defaults to 1:1.
func Check(sql string) *ParseError {
	_, err := pg_query.Parse(sql)
	if err == nil {
		return nil
	}

	perr := &ParseError{Message: err.Error(), Line: 1, Column: 1}

	var pqErr *pg_query_parser.Error
	if errors.As(err, &pqErr) && pqErr.Cursorpos > 0 {
		perr.Message = pqErr.Message
		perr.Line, perr.Column = locate(sql, pqErr.Cursorpos)
		return perr
	}

	if m := reLineCol.FindStringSubmatch(err.Error()); m != nil {
		perr.Line, _ = strconv.Atoi(m[1])
		perr.Column, _ = strconv.Atoi(m[2])
	}
	return perr
}

// locate converts a 1-based cursor offset into a 1-based line/column pair.
func locate(sql string, cursorpos int) (int, int) {
	idx := cursorpos - 1
	if idx > len(sql) {
		idx = len(sql)
	}
	line := strings.Count(sql[:idx], "\n") + 1
	col := idx - strings.LastIndex(sql[:idx], "\n")
	return line, col
}
