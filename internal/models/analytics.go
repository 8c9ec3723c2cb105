package models

import "time"

// AnalyticsEvent records the outcome of one completed search. Events are
// append-only; Timestamp is assigned by the recorder, never by the caller.
type AnalyticsEvent struct {
	Query          string    `json:"query"`
	UserID         string    `json:"user_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ResultsCount   int       `json:"results_count"`
	ClickedResults []string  `json:"clicked_results,omitempty"`
	SearchTimeMs   int64     `json:"search_time_ms"`
	Refinements    int       `json:"refinements,omitempty"`
	Abandoned      bool      `json:"abandoned,omitempty"`
}

// QueryCount is one entry of a popularity ranking.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SuggestionType classifies an autocomplete suggestion.
type SuggestionType string

// Suggestion types.
const (
	SuggestionQuery    SuggestionType = "query"
	SuggestionFilter   SuggestionType = "filter"
	SuggestionShortcut SuggestionType = "shortcut"
)

// AutocompleteSuggestion is a ranked partial-match suggestion.
type AutocompleteSuggestion struct {
	Text     string                 `json:"text"`
	Type     SuggestionType         `json:"type"`
	Weight   float64                `json:"weight"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
