// Package autocomplete produces ranked partial-match suggestions from query
// history and index keywords and titles.
package autocomplete

import (
	"sort"
	"strings"

	"github.com/hyperjump/shirabe/internal/index"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/pkg/utils"
)

// Suggestion source weights. Titles outrank history, which outranks keywords.
const (
	historyWeight = 0.8
	keywordWeight = 0.6
	titleWeight   = 1.0
)

// History supplies previously executed query strings.
type History interface {
	QueryHistory() []string
}

// Engine builds suggestions from the index store and query history.
type Engine struct {
	store   *index.Store
	history History
}

// NewEngine creates an autocomplete engine.
func NewEngine(store *index.Store, history History) *Engine {
	return &Engine{store: store, history: history}
}

// Suggestions gathers candidates for the partial input: index titles
// containing the partial anywhere (typed as shortcuts), distinct historical
// queries with the partial as prefix, and index keywords with the same prefix
// rule. Sources are gathered in descending weight order and candidates are
// deduplicated by exact text keeping the first occurrence, so a title that is
// also a keyword keeps its shortcut weight. The result is sorted descending
// by weight and truncated to limit.
func (e *Engine) Suggestions(partial string, limit int) []models.AutocompleteSuggestion {
	p := strings.ToLower(strings.TrimSpace(partial))
	if p == "" || limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []models.AutocompleteSuggestion
	add := func(s models.AutocompleteSuggestion) {
		if _, dup := seen[s.Text]; dup {
			return
		}
		seen[s.Text] = struct{}{}
		out = append(out, s)
	}

	items := e.store.Items()
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), p) {
			add(models.AutocompleteSuggestion{
				Text:   item.Title,
				Type:   models.SuggestionShortcut,
				Weight: titleWeight,
				Metadata: map[string]interface{}{
					"item_id":   item.ID,
					"item_type": string(item.Type),
					"preview":   utils.Truncate(item.Content, 80),
				},
			})
		}
	}

	if e.history != nil {
		for _, q := range e.history.QueryHistory() {
			if strings.HasPrefix(strings.ToLower(q), p) {
				add(models.AutocompleteSuggestion{
					Text:   q,
					Type:   models.SuggestionQuery,
					Weight: historyWeight,
				})
			}
		}
	}

	for _, item := range items {
		for _, kw := range item.SearchKeywords {
			if strings.HasPrefix(kw, p) {
				add(models.AutocompleteSuggestion{
					Text:   kw,
					Type:   models.SuggestionQuery,
					Weight: keywordWeight,
					Metadata: map[string]interface{}{
						"item_id":   item.ID,
						"item_type": string(item.Type),
					},
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}
