package lsp

import (
	"reflect"
	"testing"
)

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []int
	}{
		{"empty", "", []int{0}},
		{"single line", "select 1", []int{0}},
		{"two lines", "select 1\nfrom t", []int{0, 9}},
		{"trailing newline", "select 1\n", []int{0, 9}},
		{"blank lines", "a\n\nb", []int{0, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeLineOffsets(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("computeLineOffsets(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func newDoc(content string) *Document {
	return &Document{
		URI:     "file:///test.sql",
		Content: content,
		Lines:   computeLineOffsets(content),
	}
}

func TestPositionToOffset(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pos     Position
		want    int
	}{
		{"start", "select 1", Position{0, 0}, 0},
		{"mid line", "select 1", Position{0, 7}, 7},
		{"second line", "select\n1", Position{1, 0}, 7},
		{"past line end clamps", "ab\ncd", Position{0, 10}, 2},
		{"past last line clamps", "ab", Position{5, 0}, 2},
		{"multibyte utf16", "héllo wörld", Position{0, 3}, 4},
		{"surrogate pair", "a\U0001F600b", Position{0, 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newDoc(tt.content).PositionToOffset(tt.pos); got != tt.want {
				t.Errorf("PositionToOffset(%v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestOffsetToPosition(t *testing.T) {
	tests := []struct {
		name    string
		content string
		offset  int
		want    Position
	}{
		{"start", "select 1", 0, Position{0, 0}},
		{"mid line", "select 1", 7, Position{0, 7}},
		{"line start", "select\n1", 7, Position{1, 0}},
		{"negative clamps", "ab", -1, Position{0, 0}},
		{"past end clamps", "ab", 10, Position{0, 2}},
		{"multibyte utf16", "héllo", 3, Position{0, 2}},
		{"surrogate pair", "a\U0001F600b", 5, Position{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newDoc(tt.content).OffsetToPosition(tt.offset); got != tt.want {
				t.Errorf("OffsetToPosition(%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestPositionOffsetRoundTrip(t *testing.T) {
	content := "with stg as (\n  select 'é' as c\n)\nselect * from stg"
	doc := newDoc(content)

	for offset := 0; offset <= len(content); offset++ {
		// Only offsets on rune boundaries round-trip exactly.
		if offset < len(content) && content[offset]&0xC0 == 0x80 {
			continue
		}
		pos := doc.OffsetToPosition(offset)
		if back := doc.PositionToOffset(pos); back != offset {
			t.Errorf("round trip at offset %d: got %d", offset, back)
		}
	}
}

func TestApplyChanges_FullReplace(t *testing.T) {
	store := NewDocumentStore()
	store.Open("u", "select 1", 1)

	store.ApplyChanges("u", []TextDocumentContentChangeEvent{{Text: "select 2"}}, 2)

	doc := store.Get("u")
	if doc.Content != "select 2" {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.Version != 2 {
		t.Errorf("version = %d", doc.Version)
	}
}

func TestApplyChanges_RangedSplice(t *testing.T) {
	store := NewDocumentStore()
	store.Open("u", "select 1 from t\nwhere x = 1", 1)

	// Replace "1" on line 0 with "id".
	store.ApplyChanges("u", []TextDocumentContentChangeEvent{{
		Range: &Range{Start: Position{0, 7}, End: Position{0, 8}},
		Text:  "id",
	}}, 2)

	doc := store.Get("u")
	want := "select id from t\nwhere x = 1"
	if doc.Content != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
}

func TestApplyChanges_SequentialEdits(t *testing.T) {
	store := NewDocumentStore()
	store.Open("u", "ab", 1)

	// Each change is resolved against the buffer the previous one produced.
	store.ApplyChanges("u", []TextDocumentContentChangeEvent{
		{Range: &Range{Start: Position{0, 1}, End: Position{0, 1}}, Text: "x"},
		{Range: &Range{Start: Position{0, 2}, End: Position{0, 2}}, Text: "y\nz"},
	}, 2)

	doc := store.Get("u")
	if doc.Content != "axy\nzb" {
		t.Errorf("content = %q", doc.Content)
	}
	if !reflect.DeepEqual(doc.Lines, []int{0, 4}) {
		t.Errorf("lines = %v", doc.Lines)
	}
}

func TestApplyChanges_InsertThenDelete(t *testing.T) {
	store := NewDocumentStore()
	base := "select * from {{ ref('orders') }}"
	store.Open("u", base, 1)

	insert := " union all select * from {{ ref('y') }}"
	store.ApplyChanges("u", []TextDocumentContentChangeEvent{{
		Range: &Range{Start: Position{0, 33}, End: Position{0, 33}},
		Text:  insert,
	}}, 2)
	store.ApplyChanges("u", []TextDocumentContentChangeEvent{{
		Range: &Range{Start: Position{0, 33}, End: Position{0, uint32(33 + len(insert))}},
		Text:  "",
	}}, 3)

	if got := store.Get("u").Content; got != base {
		t.Errorf("content = %q, want %q", got, base)
	}
}

func TestWordAt(t *testing.T) {
	doc := newDoc("select o.amount from orders o")

	tests := []struct {
		name   string
		offset int
		word   string
		start  int
	}{
		{"word start", 7, "o", 7},
		{"inside word", 11, "amount", 9},
		{"on whitespace", 6, "select", 0},
		{"end of doc", 29, "o", 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, _ := doc.WordAt(tt.offset)
			if word != tt.word || start != tt.start {
				t.Errorf("WordAt(%d) = %q at %d, want %q at %d", tt.offset, word, start, tt.word, tt.start)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	doc := newDoc("select 1\nfrom t\n")

	if got := doc.GetLine(0); got != "select 1" {
		t.Errorf("line 0 = %q", got)
	}
	if got := doc.GetLine(1); got != "from t" {
		t.Errorf("line 1 = %q", got)
	}
	if got := doc.GetLine(5); got != "" {
		t.Errorf("line 5 = %q", got)
	}
}

func TestURIConversion(t *testing.T) {
	if got := URIToPath("file:///p/models/a.sql"); got != "/p/models/a.sql" {
		t.Errorf("URIToPath = %q", got)
	}
	if got := PathToURI("/p/models/a.sql"); got != "file:///p/models/a.sql" {
		t.Errorf("PathToURI = %q", got)
	}
}
