// Package search provides the query engine: filtering, scoring, sorting,
// pagination, highlighting, faceting, suggestions, and the semantic-only path.
package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/analytics"
	"github.com/hyperjump/shirabe/internal/index"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/ranking"
	"github.com/hyperjump/shirabe/internal/tokenize"
	"github.com/hyperjump/shirabe/internal/vector"
)

// SemanticThreshold is the minimum cosine similarity for the semantic-only
// search path.
const SemanticThreshold = 0.3

// SearchEvent is delivered to subscribers after each completed search.
type SearchEvent struct {
	Query    models.SearchQuery
	Response *models.SearchResponse
	UserID   string
}

// Listener receives search events synchronously.
type Listener func(SearchEvent)

// Engine orchestrates search over the index store. It owns the query history
// that feeds suggestions and autocomplete.
type Engine struct {
	store     *index.Store
	scorer    *ranking.Scorer
	vectors   *vector.Generator
	analytics *analytics.Recorder

	defaultLimit    int
	maxLimit        int
	historySize     int
	suggestionLimit int

	historyMu sync.Mutex
	history   []string

	listMu    sync.RWMutex
	listeners []Listener

	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for per-query debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithLimits overrides the default and maximum page sizes.
func WithLimits(defaultLimit, maxLimit int) EngineOption {
	return func(e *Engine) {
		if defaultLimit > 0 {
			e.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			e.maxLimit = maxLimit
		}
	}
}

// WithHistorySize caps the query history ring.
func WithHistorySize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.historySize = n
		}
	}
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	store *index.Store,
	scorer *ranking.Scorer,
	vectors *vector.Generator,
	recorder *analytics.Recorder,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		store:           store,
		scorer:          scorer,
		vectors:         vectors,
		analytics:       recorder,
		defaultLimit:    10,
		maxLimit:        100,
		historySize:     100,
		suggestionLimit: 5,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers fn to receive an event for every completed search.
func (e *Engine) Subscribe(fn Listener) {
	e.listMu.Lock()
	defer e.listMu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Search runs the full query pipeline and records the outcome. A query that
// matches nothing returns an empty page with Total 0; it is never an error.
func (e *Engine) Search(query models.SearchQuery) *models.SearchResponse {
	start := time.Now()
	query.Normalize(e.defaultLimit, e.maxLimit)

	candidates := filterByType(e.store.Items(), query.Types)
	candidates = applyFilters(candidates, query.Filters)

	terms := tokenize.Tokenize(query.Query)
	var results []*models.SearchResult
	if len(terms) > 0 {
		opts := ranking.Options{Fuzzy: query.Fuzzy, Semantic: query.Semantic}
		if query.Semantic {
			opts.QueryVector = e.vectors.Generate(query.Query)
		}
		for _, item := range candidates {
			bd := e.scorer.ScoreWithBreakdown(item, terms, opts)
			if bd.Final <= 0 {
				continue
			}
			results = append(results, &models.SearchResult{
				Item:        item,
				Score:       bd.Final,
				Highlights:  BuildHighlights(item, terms),
				Explanation: explain(bd),
			})
		}
	} else {
		// Degenerate input: empty query falls back to importance ordering.
		results = make([]*models.SearchResult, 0, len(candidates))
		for _, item := range candidates {
			results = append(results, &models.SearchResult{
				Item:        item,
				Score:       item.Importance,
				Explanation: "sorted by importance",
			})
		}
	}

	sortResults(results, query.SortBy, query.SortOrder)
	total := len(results)
	facets := computeFacets(results)
	page := paginate(results, query.Offset, query.Limit)

	resp := &models.SearchResponse{
		Results:     page,
		Total:       total,
		TookMs:      time.Since(start).Milliseconds(),
		Query:       query.Query,
		Suggestions: e.relatedSuggestions(query.Query),
		Facets:      facets,
	}

	e.rememberQuery(query.Query)
	e.analytics.Track(models.AnalyticsEvent{
		Query:        query.Query,
		UserID:       query.UserID,
		ResultsCount: total,
		SearchTimeMs: resp.TookMs,
	})
	if e.logger != nil {
		e.logger.Debug("search completed",
			zap.String("query", query.Query),
			zap.Int("total", total),
			zap.Int64("took_ms", resp.TookMs),
		)
	}
	e.notify(SearchEvent{Query: query, Response: resp, UserID: query.UserID})
	return resp
}

// SemanticSearch is the cosine-similarity-only path: no lexical scoring, no
// filters. Items without a vector are skipped; matches below the threshold
// are dropped. Results are sorted by similarity descending.
func (e *Engine) SemanticSearch(text string, limit int) []*models.SearchResult {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	queryVec := e.vectors.Generate(text)

	var results []*models.SearchResult
	for _, item := range e.store.Items() {
		if len(item.SemanticVector) == 0 {
			continue
		}
		sim := vector.CosineSimilarity(queryVec, item.SemanticVector)
		if sim < SemanticThreshold {
			continue
		}
		results = append(results, &models.SearchResult{
			Item:        item,
			Score:       sim,
			Explanation: fmt.Sprintf("semantic similarity %.2f", sim),
		})
	}
	sortResults(results, models.SortByRelevance, models.SortDesc)
	if limit < len(results) {
		results = results[:limit]
	}
	return results
}

// QueryHistory returns a snapshot of recorded query strings, oldest first.
func (e *Engine) QueryHistory() []string {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) rememberQuery(query string) {
	q := strings.TrimSpace(query)
	if q == "" {
		return
	}
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	e.history = append(e.history, q)
	if len(e.history) > e.historySize {
		e.history = e.history[len(e.history)-e.historySize:]
	}
}

func (e *Engine) notify(ev SearchEvent) {
	e.listMu.RLock()
	listeners := e.listeners
	e.listMu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func explain(bd ranking.Breakdown) string {
	parts := make([]string, 0, 4)
	if bd.TitleMatches > 0 {
		parts = append(parts, fmt.Sprintf("%d title", bd.TitleMatches))
	}
	if bd.ContentMatches > 0 {
		parts = append(parts, fmt.Sprintf("%d content", bd.ContentMatches))
	}
	if bd.TagMatches > 0 {
		parts = append(parts, fmt.Sprintf("%d tag", bd.TagMatches))
	}
	s := "matched " + strings.Join(parts, ", ") + " terms"
	if len(parts) == 0 {
		s = "no lexical match"
	}
	if bd.SemanticScore > 0 {
		s += fmt.Sprintf(", semantic %.2f", bd.SemanticScore)
	}
	return s
}

// sortResults orders results by the requested key. Equal keys fall back to
// ascending item id so ordering is deterministic regardless of map iteration.
func sortResults(results []*models.SearchResult, by models.SortField, order models.SortOrder) {
	flip := 1
	if order == models.SortDesc {
		flip = -1
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		var c int
		switch by {
		case models.SortByDate:
			c = a.Item.LastUpdated.Compare(b.Item.LastUpdated)
		case models.SortByImportance:
			c = compareFloat(a.Item.Importance, b.Item.Importance)
		case models.SortByAlphabetical:
			c = strings.Compare(a.Item.Title, b.Item.Title)
		default:
			c = compareFloat(a.Score, b.Score)
		}
		c *= flip
		if c != 0 {
			return c < 0
		}
		return a.Item.ID < b.Item.ID
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func paginate(results []*models.SearchResult, offset, limit int) []*models.SearchResult {
	if offset >= len(results) {
		return []*models.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

// computeFacets counts types and categories over the full pre-pagination
// match set.
func computeFacets(results []*models.SearchResult) *models.Facets {
	facets := &models.Facets{
		Types:      make(map[models.ItemType]int),
		Categories: make(map[string]int),
	}
	for _, r := range results {
		facets.Types[r.Item.Type]++
		if r.Item.Category != "" {
			facets.Categories[r.Item.Category]++
		}
	}
	return facets
}

// relatedSuggestions returns up to the configured number of related query
// strings: popular queries sharing the current query as a prefix, then index
// titles containing it.
func (e *Engine) relatedSuggestions(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	seen := map[string]struct{}{query: {}}
	var out []string
	add := func(s string) {
		if _, dup := seen[s]; dup || len(out) >= e.suggestionLimit {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, pc := range e.analytics.PopularQueries(0) {
		if strings.HasPrefix(strings.ToLower(pc.Query), q) {
			add(pc.Query)
		}
	}
	for _, item := range e.store.Items() {
		if strings.Contains(strings.ToLower(item.Title), q) {
			add(item.Title)
		}
	}
	return out
}
