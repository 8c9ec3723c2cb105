// Package analytics records search outcomes in an append-only log and
// aggregates query popularity.
package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/models"
)

// Sink receives a copy of every tracked event, for durable storage behind the
// in-memory log. Sink failures are logged and never fail Track.
type Sink interface {
	Append(ctx context.Context, event *models.AnalyticsEvent) error
}

// Listener receives tracked events synchronously, in append order.
type Listener func(models.AnalyticsEvent)

// Recorder owns the append-only event log. Events are never mutated after
// tracking and are read-only for aggregation.
type Recorder struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent

	listMu    sync.RWMutex
	listeners []Listener

	sink   Sink
	now    func() time.Time
	logger *zap.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSink sets a durable store that every event is written through to.
func WithSink(sink Sink) RecorderOption {
	return func(r *Recorder) { r.sink = sink }
}

// WithLogger sets a logger for sink failures.
func WithLogger(l *zap.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn to receive every event tracked from now on.
func (r *Recorder) Subscribe(fn Listener) {
	r.listMu.Lock()
	defer r.listMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Track appends the event with a server-assigned timestamp and returns the
// stored copy. Caller-supplied timestamps are overwritten.
func (r *Recorder) Track(event models.AnalyticsEvent) models.AnalyticsEvent {
	event.Timestamp = r.now()

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	if r.sink != nil {
		if err := r.sink.Append(context.Background(), &event); err != nil && r.logger != nil {
			r.logger.Warn("analytics sink append failed",
				zap.String("query", event.Query), zap.Error(err))
		}
	}

	r.listMu.RLock()
	listeners := r.listeners
	r.listMu.RUnlock()
	for _, fn := range listeners {
		fn(event)
	}
	return event
}

// Restore seeds the in-memory log, e.g. from the durable store at startup.
// Restored events keep their original timestamps and bypass sink and listeners.
func (r *Recorder) Restore(events []models.AnalyticsEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// Events returns events filtered by user and time range. Empty userID matches
// all users; zero from/to leave that bound open.
func (r *Recorder) Events(userID string, from, to time.Time) []models.AnalyticsEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AnalyticsEvent, 0, len(r.events))
	for _, ev := range r.events {
		if userID != "" && ev.UserID != userID {
			continue
		}
		if !from.IsZero() && ev.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && ev.Timestamp.After(to) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Size returns the number of tracked events.
func (r *Recorder) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// PopularQueries groups events by exact query string and returns the most
// frequent ones, descending by count with query string as the tie-break.
func (r *Recorder) PopularQueries(limit int) []models.QueryCount {
	r.mu.Lock()
	counts := make(map[string]int)
	for _, ev := range r.events {
		if ev.Query == "" {
			continue
		}
		counts[ev.Query]++
	}
	r.mu.Unlock()

	ranked := make([]models.QueryCount, 0, len(counts))
	for q, c := range counts {
		ranked = append(ranked, models.QueryCount{Query: q, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Query < ranked[j].Query
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
