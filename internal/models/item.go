// Package models defines core data structures for indexed items, queries, and search results.
package models

import "time"

// ItemType identifies the kind of content an indexed item holds.
type ItemType string

// Supported content kinds.
const (
	ItemTypeEmail    ItemType = "email"
	ItemTypeContact  ItemType = "contact"
	ItemTypeDocument ItemType = "document"
	ItemTypeHelp     ItemType = "help"
	ItemTypeFeature  ItemType = "feature"
	ItemTypeSetting  ItemType = "setting"
)

// IndexedItem is the unit of search. ID is assigned by the index store and is
// immutable. SearchKeywords and SemanticVector are derived from Title and
// Content; they are regenerated together whenever either changes and must not
// be set by callers.
type IndexedItem struct {
	ID             string                 `json:"id"`
	Type           ItemType               `json:"type"`
	Title          string                 `json:"title"`
	Content        string                 `json:"content"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	Category       string                 `json:"category,omitempty"`
	Importance     float64                `json:"importance"`
	LastUpdated    time.Time              `json:"last_updated"`
	SearchKeywords []string               `json:"search_keywords,omitempty"`
	SemanticVector []float32              `json:"-"`
}

// ItemPatch is a partial update for an indexed item. Nil fields are left
// unchanged; Tags and Metadata replace the existing values when non-nil.
type ItemPatch struct {
	Type        *ItemType              `json:"type,omitempty"`
	Title       *string                `json:"title,omitempty"`
	Content     *string                `json:"content,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Category    *string                `json:"category,omitempty"`
	Importance  *float64               `json:"importance,omitempty"`
	LastUpdated *time.Time             `json:"last_updated,omitempty"`
}

// TouchesContent reports whether the patch changes title or content, which
// requires keyword and vector regeneration.
func (p *ItemPatch) TouchesContent() bool {
	return p.Title != nil || p.Content != nil
}
