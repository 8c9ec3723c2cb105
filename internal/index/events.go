package index

import "github.com/hyperjump/shirabe/internal/models"

// Action identifies the kind of index mutation a change event describes.
type Action string

// Mutation kinds.
const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
	ActionClear  Action = "clear"
)

// ChangeEvent is delivered to subscribers after each index mutation. Item is
// set for add/update; ID is set for add/update/remove; both are empty for clear.
type ChangeEvent struct {
	Action Action
	ID     string
	Item   *models.IndexedItem
}

// Subscriber receives index change events. Events are delivered synchronously
// in mutation order; subscribers must not block and may read the store, but
// must not mutate it from within the callback.
type Subscriber func(ChangeEvent)
