package models

// SortField selects the sort key for search results.
type SortField string

// Supported sort fields.
const (
	SortByRelevance    SortField = "relevance"
	SortByDate         SortField = "date"
	SortByImportance   SortField = "importance"
	SortByAlphabetical SortField = "alphabetical"
)

// SortOrder selects ascending or descending order.
type SortOrder string

// Supported sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter keys with dedicated semantics in SearchQuery.Filters. Any other key
// is matched exactly against the item's metadata.
const (
	FilterCategory = "category"
	FilterTags     = "tags"
	FilterDateFrom = "dateFrom"
	FilterDateTo   = "dateTo"
)

// SearchQuery represents a search request. An empty Query falls back to
// importance ordering over the filtered set.
type SearchQuery struct {
	Query     string                 `json:"query"`
	Types     []ItemType             `json:"types,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
	SortBy    SortField              `json:"sort_by,omitempty"`
	SortOrder SortOrder              `json:"sort_order,omitempty"`
	Limit     int                    `json:"limit,omitempty"`
	Offset    int                    `json:"offset,omitempty"`
	Fuzzy     bool                   `json:"fuzzy,omitempty"`
	Semantic  bool                   `json:"semantic,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
}

// Normalize applies defaults and clamps limit and offset. Unrecognized sort
// fields fall back to relevance ordering rather than failing.
func (q *SearchQuery) Normalize(defaultLimit, maxLimit int) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	switch q.SortBy {
	case SortByRelevance, SortByDate, SortByImportance, SortByAlphabetical:
	default:
		q.SortBy = SortByRelevance
	}
	switch q.SortOrder {
	case SortAsc, SortDesc:
	default:
		q.SortOrder = SortDesc
	}
}
