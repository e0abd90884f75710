package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/basinlabs/basin/internal/analysis"
)

// Document represents an open text document in the editor. Analysis holds
// the derived state of the last pipeline run and is replaced wholesale on
// every edit.
type Document struct {
	URI      string
	Content  string
	Version  int
	Lines    []int // byte offsets of line starts
	Analysis *analysis.Result
}

// DocumentStore manages open documents in memory. Per-document mutation
// happens under the store lock, so edits to different documents never
// observe each other mid-splice.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// ApplyChanges applies an ordered list of content changes. A change with no
// range replaces the whole document; a ranged change splices into the
// buffer, with positions resolved against the pre-change content.
func (s *DocumentStore) ApplyChanges(uri string, changes []TextDocumentContentChangeEvent, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[uri]
	if !ok {
		return
	}

	for _, change := range changes {
		if change.Range == nil {
			doc.Content = change.Text
		} else {
			start := doc.PositionToOffset(change.Range.Start)
			end := doc.PositionToOffset(change.Range.End)
			if end < start {
				start, end = end, start
			}
			doc.Content = doc.Content[:start] + change.Text + doc.Content[end:]
		}
		doc.Lines = computeLineOffsets(doc.Content)
	}
	doc.Version = version
}

// SetAnalysis replaces the document's cached derived state.
func (s *DocumentStore) SetAnalysis(uri string, res *analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.documents[uri]; ok {
		doc.Analysis = res
	}
}

// List returns all open document URIs.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	return uris
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0}

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// PositionToOffset converts a Position (zero-based line, UTF-16 column) to
// a byte offset. Positions past the end of a line or document clamp.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset := d.Lines[line]
	end := len(d.Content)
	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1
	}

	units := int(pos.Character)
	for offset < end && units > 0 {
		r, size := utf8.DecodeRuneInString(d.Content[offset:])
		units -= utf16.RuneLen(r)
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset to a Position with a UTF-16
// column.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Content) {
		offset = len(d.Content)
	}

	line := 0
	for i, lineOffset := range d.Lines {
		if lineOffset > offset {
			break
		}
		line = i
	}

	character := 0
	for i := d.Lines[line]; i < offset; {
		r, size := utf8.DecodeRuneInString(d.Content[i:])
		character += utf16.RuneLen(r)
		i += size
	}

	return Position{
		Line:      uint32(line),
		Character: uint32(character),
	}
}

// RangeFor converts a byte range to an LSP Range.
func (d *Document) RangeFor(start, end int) Range {
	return Range{
		Start: d.OffsetToPosition(start),
		End:   d.OffsetToPosition(end),
	}
}

// GetLine returns the content of a specific line.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}

	start := d.Lines[line]
	end := len(d.Content)

	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1
		if end < start {
			end = start
		}
	}

	return d.Content[start:end]
}

// WordAt returns the identifier around a byte offset and its byte range.
func (d *Document) WordAt(offset int) (string, int, int) {
	if d == nil || offset < 0 || offset > len(d.Content) {
		return "", 0, 0
	}

	start := offset
	for start > 0 && isWordChar(d.Content[start-1]) {
		start--
	}

	end := offset
	for end < len(d.Content) && isWordChar(d.Content[end]) {
		end++
	}

	if start == end {
		return "", offset, offset
	}
	return d.Content[start:end], start, end
}

// isWordChar returns true if the character is part of an identifier.
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	const prefix = "file://"
	if strings.HasPrefix(uri, prefix) {
		return uri[len(prefix):]
	}
	return uri
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
