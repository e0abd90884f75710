package lsp

import "sort"

// getCompletions returns the fixed templating snippets plus one item per
// known model. Completion works without a manifest; only the model items
// need one.
func (s *Server) getCompletions(_ CompletionParams) []CompletionItem {
	items := []CompletionItem{
		{
			Label:            "ref",
			Kind:             CompletionItemKindSnippet,
			Detail:           "Expand to ref() tag",
			InsertText:       "{{ ref('$1') }}",
			InsertTextFormat: InsertTextFormatSnippet,
		},
		{
			Label:            "source",
			Kind:             CompletionItemKindSnippet,
			Detail:           "Expand to source() tag",
			InsertText:       "{{ source('$1', '$2') }}",
			InsertTextFormat: InsertTextFormatSnippet,
		},
	}

	manifest := s.registry.Snapshot()
	if manifest == nil {
		return items
	}

	names := make([]string, 0, len(manifest.Models))
	for name := range manifest.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		items = append(items, CompletionItem{
			Label:  name,
			Kind:   CompletionItemKindFile,
			Detail: "dbt model",
		})
	}

	return items
}
