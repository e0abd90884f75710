package jinja

// RefKind distinguishes what a reference points at.
type RefKind int

// Reference kinds.
const (
	RefModel RefKind = iota
	RefSource
	RefMacro
)

// String returns a human-readable kind label.
func (k RefKind) String() string {
	switch k {
	case RefModel:
		return "model"
	case RefSource:
		return "source"
	case RefMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// Ref is a symbolic reference recovered from the original (un-normalized)
// text. Start and End are byte offsets spanning the entire invocation,
// delimiters included. Immutable once extracted.
type Ref struct {
	Kind  RefKind
	Name  string // model name, macro name, or source name
	Table string // table name, set for source references only
	Start int
	End   int
}

// Key returns the lookup key for the project manifest: the plain name for
// models and macros, "source.table" for source references.
func (r Ref) Key() string {
	if r.Kind == RefSource {
		return r.Name + "." + r.Table
	}
	return r.Name
}

// Contains reports whether the byte offset falls inside the invocation.
func (r Ref) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// ExtractRefs scans the original text for ref, source, and macro-call
// invocations. The three passes are independent: a construct matched by more
// than one pattern yields an entry per kind, and no deduplication happens
// here. Ranges are always original-document byte offsets.
func ExtractRefs(text string) []Ref {
	var refs []Ref

	for _, m := range reRef.FindAllStringSubmatchIndex(text, -1) {
		refs = append(refs, Ref{
			Kind:  RefModel,
			Name:  text[m[2]:m[3]],
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range reSource.FindAllStringSubmatchIndex(text, -1) {
		refs = append(refs, Ref{
			Kind:  RefSource,
			Name:  text[m[2]:m[3]],
			Table: text[m[4]:m[5]],
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range reMacroCall.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if builtinCalls[name] || stmtKeywords[name] {
			continue
		}
		refs = append(refs, Ref{
			Kind:  RefMacro,
			Name:  name,
			Start: m[0],
			End:   m[1],
		})
	}

	return refs
}
