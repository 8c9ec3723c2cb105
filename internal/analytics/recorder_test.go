package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
)

type fakeSink struct {
	events []models.AnalyticsEvent
	err    error
}

func (f *fakeSink) Append(_ context.Context, ev *models.AnalyticsEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *ev)
	return nil
}

func TestRecorder_TrackAssignsTimestamp(t *testing.T) {
	fixed := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	rec := NewRecorder(WithClock(func() time.Time { return fixed }))

	stored := rec.Track(models.AnalyticsEvent{
		Query:     "归档",
		Timestamp: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !stored.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want server-assigned %v", stored.Timestamp, fixed)
	}
	if rec.Size() != 1 {
		t.Errorf("Size() = %d, want 1", rec.Size())
	}
}

func TestRecorder_EventsFiltering(t *testing.T) {
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	current := base
	rec := NewRecorder(WithClock(func() time.Time { return current }))

	for i, ev := range []models.AnalyticsEvent{
		{Query: "mail", UserID: "alice"},
		{Query: "archive", UserID: "bob"},
		{Query: "shortcuts", UserID: "alice"},
	} {
		current = base.Add(time.Duration(i) * time.Hour)
		rec.Track(ev)
	}

	tests := []struct {
		name     string
		userID   string
		from, to time.Time
		want     int
	}{
		{"all", "", time.Time{}, time.Time{}, 3},
		{"by user", "alice", time.Time{}, time.Time{}, 2},
		{"from bound", "", base.Add(time.Hour), time.Time{}, 2},
		{"to bound", "", time.Time{}, base.Add(time.Hour), 2},
		{"window", "alice", base.Add(time.Hour), base.Add(2 * time.Hour), 1},
		{"unknown user", "carol", time.Time{}, time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.Events(tt.userID, tt.from, tt.to)
			if len(got) != tt.want {
				t.Errorf("Events(%q, %v, %v) returned %d events, want %d",
					tt.userID, tt.from, tt.to, len(got), tt.want)
			}
		})
	}
}

func TestRecorder_PopularQueries(t *testing.T) {
	rec := NewRecorder()
	for _, q := range []string{"快捷键", "归档", "快捷键", "", "主题"} {
		rec.Track(models.AnalyticsEvent{Query: q})
	}

	ranked := rec.PopularQueries(0)
	if len(ranked) != 3 {
		t.Fatalf("got %d queries, want 3 (empty query excluded)", len(ranked))
	}
	if ranked[0].Query != "快捷键" || ranked[0].Count != 2 {
		t.Errorf("top = %+v, want 快捷键 x2", ranked[0])
	}
	// Tie on count 1: ordered by query string.
	if ranked[1].Query >= ranked[2].Query {
		t.Errorf("tie-break not by query string: %q before %q", ranked[1].Query, ranked[2].Query)
	}

	if got := rec.PopularQueries(1); len(got) != 1 {
		t.Errorf("PopularQueries(1) returned %d, want 1", len(got))
	}
}

func TestRecorder_SinkWriteThrough(t *testing.T) {
	sink := &fakeSink{}
	rec := NewRecorder(WithSink(sink))
	rec.Track(models.AnalyticsEvent{Query: "mail"})
	if len(sink.events) != 1 || sink.events[0].Query != "mail" {
		t.Errorf("sink got %+v, want one mail event", sink.events)
	}

	t.Run("sink failure does not fail tracking", func(t *testing.T) {
		failing := &fakeSink{err: errors.New("disk full")}
		rec := NewRecorder(WithSink(failing))
		rec.Track(models.AnalyticsEvent{Query: "archive"})
		if rec.Size() != 1 {
			t.Errorf("Size() = %d, want 1 despite sink failure", rec.Size())
		}
	})
}

func TestRecorder_RestoreBypassesSinkAndListeners(t *testing.T) {
	sink := &fakeSink{}
	rec := NewRecorder(WithSink(sink))
	var notified int
	rec.Subscribe(func(models.AnalyticsEvent) { notified++ })

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec.Restore([]models.AnalyticsEvent{{Query: "mail", Timestamp: old}})

	if rec.Size() != 1 {
		t.Errorf("Size() = %d, want 1", rec.Size())
	}
	if len(sink.events) != 0 {
		t.Error("restore must not write back to the sink")
	}
	if notified != 0 {
		t.Error("restore must not notify listeners")
	}
	events := rec.Events("", time.Time{}, time.Time{})
	if !events[0].Timestamp.Equal(old) {
		t.Errorf("restored timestamp = %v, want original %v", events[0].Timestamp, old)
	}
}

func TestRecorder_ListenersReceiveInOrder(t *testing.T) {
	rec := NewRecorder()
	var seen []string
	rec.Subscribe(func(ev models.AnalyticsEvent) { seen = append(seen, ev.Query) })

	rec.Track(models.AnalyticsEvent{Query: "a"})
	rec.Track(models.AnalyticsEvent{Query: "b"})

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("listener saw %v, want [a b]", seen)
	}
}
