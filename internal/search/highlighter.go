package search

import (
	"sort"
	"strings"

	"github.com/hyperjump/shirabe/internal/models"
)

// BuildHighlights locates every case-insensitive occurrence of each query
// term in the item's title and content. Spans carry byte offsets into the
// original field value and are sorted by start offset. Fields with no
// occurrences are omitted.
func BuildHighlights(item *models.IndexedItem, terms []string) []models.Highlight {
	var highlights []models.Highlight
	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", item.Title},
		{"content", item.Content},
	} {
		spans := findSpans(field.value, terms)
		if len(spans) > 0 {
			highlights = append(highlights, models.Highlight{Field: field.name, Spans: spans})
		}
	}
	return highlights
}

func findSpans(text string, terms []string) []models.HighlightSpan {
	if text == "" {
		return nil
	}
	// ToLower preserves byte offsets for ASCII and CJK, which is the whole
	// alphabet tokenized query terms can contain.
	lower := strings.ToLower(text)
	var spans []models.HighlightSpan
	for _, term := range terms {
		if term == "" {
			continue
		}
		for from := 0; ; {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(term)
			spans = append(spans, models.HighlightSpan{
				Text:  text[start:end],
				Start: start,
				End:   end,
			})
			from = start + len(term)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}
