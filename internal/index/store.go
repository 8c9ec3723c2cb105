// Package index provides the authoritative in-memory item store. It owns the
// id→item map, derives keywords and vectors on content changes, and signals
// every mutation to registered subscribers.
package index

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/tokenize"
	"github.com/hyperjump/shirabe/internal/vector"
)

// Store maps item ids to indexed records. Reads take a consistent snapshot
// under a read lock; mutations are serialized so change events are delivered
// in mutation order.
type Store struct {
	// writeMu serializes mutations together with their notifications.
	writeMu sync.Mutex
	// mu guards items; queries hold only the read lock.
	mu    sync.RWMutex
	items map[string]*models.IndexedItem

	subMu       sync.RWMutex
	subscribers []Subscriber

	vectors *vector.Generator
	now     func() time.Time
	logger  *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets a logger for debug output (item added, removed, etc.).
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store using gen for vector derivation.
func NewStore(gen *vector.Generator, opts ...StoreOption) *Store {
	s := &Store{
		items:   make(map[string]*models.IndexedItem),
		vectors: gen,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive change events for all future mutations.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(ev ChangeEvent) {
	s.subMu.RLock()
	subs := s.subscribers
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Add stores a new item. Any caller-supplied ID, SearchKeywords, or
// SemanticVector is discarded: a fresh unique id is assigned and the derived
// fields are regenerated from title and content.
func (s *Store) Add(item models.IndexedItem) *models.IndexedItem {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item.ID = uuid.New().String()
	if item.LastUpdated.IsZero() {
		item.LastUpdated = s.now()
	}
	s.derive(&item)

	s.mu.Lock()
	s.items[item.ID] = &item
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("index item added",
			zap.String("id", item.ID),
			zap.String("type", string(item.Type)),
			zap.String("title", item.Title),
		)
	}
	s.notify(ChangeEvent{Action: ActionAdd, ID: item.ID, Item: &item})
	return &item
}

// Update merges patch into the item with the given id. Keywords and vector are
// regenerated only when title or content changed; other fields merge as-is.
// Returns nil and false when the id is unknown.
func (s *Store) Update(id string, patch models.ItemPatch) (*models.IndexedItem, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	existing, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	updated := *existing
	applyPatch(&updated, patch)
	if patch.LastUpdated == nil {
		updated.LastUpdated = s.now()
	}
	if patch.TouchesContent() {
		s.derive(&updated)
	}
	s.items[id] = &updated
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("index item updated", zap.String("id", id))
	}
	s.notify(ChangeEvent{Action: ActionUpdate, ID: id, Item: &updated})
	return &updated, true
}

// Remove deletes the item with the given id, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	_, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	if s.logger != nil {
		s.logger.Debug("index item removed", zap.String("id", id))
	}
	s.notify(ChangeEvent{Action: ActionRemove, ID: id})
	return true
}

// Clear removes all items.
func (s *Store) Clear() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.items = make(map[string]*models.IndexedItem)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("index cleared")
	}
	s.notify(ChangeEvent{Action: ActionClear})
}

// Size returns the number of indexed items.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (*models.IndexedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Items returns a snapshot slice of all items, ordered by id for determinism.
// The returned items must be treated as read-only.
func (s *Store) Items() []*models.IndexedItem {
	s.mu.RLock()
	items := make([]*models.IndexedItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// derive regenerates the item's search keywords and semantic vector together.
func (s *Store) derive(item *models.IndexedItem) {
	item.SearchKeywords = tokenize.ExtractKeywords(item.Title, item.Content)
	item.SemanticVector = s.vectors.Generate(item.Title + " " + item.Content)
}

func applyPatch(item *models.IndexedItem, patch models.ItemPatch) {
	if patch.Type != nil {
		item.Type = *patch.Type
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Content != nil {
		item.Content = *patch.Content
	}
	if patch.Metadata != nil {
		item.Metadata = patch.Metadata
	}
	if patch.Tags != nil {
		item.Tags = patch.Tags
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Importance != nil {
		item.Importance = *patch.Importance
	}
	if patch.LastUpdated != nil {
		item.LastUpdated = *patch.LastUpdated
	}
}
