package models

// HighlightSpan marks one occurrence of a query term within a field. Start and
// End are byte offsets into the original field value.
type HighlightSpan struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Highlight collects the match spans for a single field.
type Highlight struct {
	Field string          `json:"field"`
	Spans []HighlightSpan `json:"spans"`
}

// SearchResult represents a single hit with its score and highlights.
type SearchResult struct {
	Item        *IndexedItem `json:"item"`
	Score       float64      `json:"score"`
	Highlights  []Highlight  `json:"highlights,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// Facets holds count breakdowns of the full (pre-pagination) match set.
type Facets struct {
	Types      map[ItemType]int `json:"types"`
	Categories map[string]int   `json:"categories"`
}

// SearchResponse is the response for a search request. Total is the match
// count before pagination; Facets are computed over the same full set.
type SearchResponse struct {
	Results     []*SearchResult `json:"results"`
	Total       int             `json:"total"`
	TookMs      int64           `json:"took_ms"`
	Query       string          `json:"query"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Facets      *Facets         `json:"facets"`
}
