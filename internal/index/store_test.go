package index

import (
	"testing"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/vector"
)

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	return NewStore(vector.NewGenerator(vector.DefaultDimensions), opts...)
}

func TestStore_Add(t *testing.T) {
	store := newTestStore(t)
	item := store.Add(models.IndexedItem{
		ID:      "caller-supplied-must-be-ignored",
		Type:    models.ItemTypeHelp,
		Title:   "Archiving project mail",
		Content: "Rules move mail into the archive folder automatically.",
		Tags:    []string{"archive"},
	})

	if item.ID == "" || item.ID == "caller-supplied-must-be-ignored" {
		t.Errorf("expected fresh id, got %q", item.ID)
	}
	if len(item.SearchKeywords) == 0 {
		t.Error("expected derived keywords")
	}
	if len(item.SemanticVector) != vector.DefaultDimensions {
		t.Errorf("expected %d-dim vector, got %d", vector.DefaultDimensions, len(item.SemanticVector))
	}
	if item.LastUpdated.IsZero() {
		t.Error("expected LastUpdated to be set")
	}
	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}

	second := store.Add(models.IndexedItem{Type: models.ItemTypeEmail, Title: "Other"})
	if second.ID == item.ID {
		t.Error("ids must be unique")
	}
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	item := store.Add(models.IndexedItem{
		Type:       models.ItemTypeFeature,
		Title:      "Quick reply",
		Content:    "Reply templates",
		Importance: 0.4,
	})
	keywordsBefore := item.SearchKeywords
	vectorBefore := item.SemanticVector

	t.Run("metadata-only update keeps derived fields", func(t *testing.T) {
		imp := 0.9
		updated, ok := store.Update(item.ID, models.ItemPatch{Importance: &imp})
		if !ok {
			t.Fatal("expected item to exist")
		}
		if updated.Importance != 0.9 {
			t.Errorf("Importance = %v, want 0.9", updated.Importance)
		}
		if &updated.SearchKeywords[0] != &keywordsBefore[0] {
			// Same backing array means no regeneration happened.
			t.Error("keywords were regenerated without a content change")
		}
	})

	t.Run("title change regenerates keywords and vector together", func(t *testing.T) {
		title := "Keyboard shortcuts"
		updated, ok := store.Update(item.ID, models.ItemPatch{Title: &title})
		if !ok {
			t.Fatal("expected item to exist")
		}
		if updated.Title != title {
			t.Errorf("Title = %q, want %q", updated.Title, title)
		}
		sameKeywords := len(updated.SearchKeywords) == len(keywordsBefore)
		if sameKeywords {
			for i := range updated.SearchKeywords {
				if updated.SearchKeywords[i] != keywordsBefore[i] {
					sameKeywords = false
					break
				}
			}
		}
		if sameKeywords {
			t.Error("expected keywords to change with the title")
		}
		sameVector := true
		for i := range updated.SemanticVector {
			if updated.SemanticVector[i] != vectorBefore[i] {
				sameVector = false
				break
			}
		}
		if sameVector {
			t.Error("expected vector to change with the title")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, ok := store.Update("nope", models.ItemPatch{}); ok {
			t.Error("expected not-found for unknown id")
		}
	})
}

func TestStore_RemoveAndClear(t *testing.T) {
	store := newTestStore(t)
	a := store.Add(models.IndexedItem{Type: models.ItemTypeEmail, Title: "A"})
	store.Add(models.IndexedItem{Type: models.ItemTypeEmail, Title: "B"})

	if !store.Remove(a.ID) {
		t.Error("Remove existing id should return true")
	}
	if store.Remove(a.ID) {
		t.Error("Remove same id twice should return false")
	}
	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}

	store.Clear()
	if store.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", store.Size())
	}
}

func TestStore_ChangeEventsInOrder(t *testing.T) {
	store := newTestStore(t)
	var events []ChangeEvent
	store.Subscribe(func(ev ChangeEvent) { events = append(events, ev) })

	item := store.Add(models.IndexedItem{Type: models.ItemTypeSetting, Title: "Theme"})
	title := "Dark theme"
	store.Update(item.ID, models.ItemPatch{Title: &title})
	store.Remove(item.ID)
	store.Clear()

	want := []Action{ActionAdd, ActionUpdate, ActionRemove, ActionClear}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, action := range want {
		if events[i].Action != action {
			t.Errorf("event %d action = %q, want %q", i, events[i].Action, action)
		}
	}
	if events[0].Item == nil || events[0].ID != item.ID {
		t.Error("add event should carry the item and its id")
	}
	if events[2].ID != item.ID {
		t.Error("remove event should carry the id")
	}
}

func TestStore_ItemsSnapshotOrderedByID(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		store.Add(models.IndexedItem{Type: models.ItemTypeDocument, Title: "doc"})
	}
	items := store.Items()
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Fatal("items not ordered by id")
		}
	}
}

func TestStore_ClockInjection(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, WithClock(func() time.Time { return fixed }))
	item := store.Add(models.IndexedItem{Type: models.ItemTypeEmail, Title: "x"})
	if !item.LastUpdated.Equal(fixed) {
		t.Errorf("LastUpdated = %v, want %v", item.LastUpdated, fixed)
	}
}
