// Package storage provides the SQLite-backed analytics event store. The
// search index itself is in-memory only; analytics events are the one thing
// retained across restarts.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/shirabe/internal/models"
)

// AnalyticsStore persists search analytics events in SQLite.
type AnalyticsStore struct {
	db *sql.DB
}

// NewAnalyticsStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not exist.
func NewAnalyticsStore(dbPath string) (*AnalyticsStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &AnalyticsStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		timestamp TIMESTAMP NOT NULL,
		results_count INTEGER NOT NULL,
		clicked_results TEXT,
		search_time_ms INTEGER NOT NULL DEFAULT 0,
		refinements INTEGER NOT NULL DEFAULT 0,
		abandoned INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_search_events_timestamp ON search_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_search_events_user_id ON search_events(user_id);
	CREATE INDEX IF NOT EXISTS idx_search_events_query ON search_events(query);
	`
	_, err := db.Exec(schema)
	return err
}

// Append inserts one event.
func (s *AnalyticsStore) Append(ctx context.Context, ev *models.AnalyticsEvent) error {
	clickedJSON, err := json.Marshal(ev.ClickedResults)
	if err != nil {
		return fmt.Errorf("failed to marshal clicked results: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_events
		 (query, user_id, timestamp, results_count, clicked_results, search_time_ms, refinements, abandoned)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Query, ev.UserID, ev.Timestamp, ev.ResultsCount, string(clickedJSON),
		ev.SearchTimeMs, ev.Refinements, ev.Abandoned,
	)
	return err
}

// Events returns the most recent events, oldest first, up to limit
// (0 means no limit).
func (s *AnalyticsStore) Events(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	query := `SELECT query, user_id, timestamp, results_count, clicked_results,
	          search_time_ms, refinements, abandoned
	          FROM search_events ORDER BY id`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		// Take the newest N but keep chronological order.
		query = `SELECT query, user_id, timestamp, results_count, clicked_results,
		         search_time_ms, refinements, abandoned FROM
		         (SELECT * FROM search_events ORDER BY id DESC LIMIT ?)
		         ORDER BY id`
		rows, err = s.db.QueryContext(ctx, query, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AnalyticsEvent
	for rows.Next() {
		var ev models.AnalyticsEvent
		var clickedJSON sql.NullString
		if err := rows.Scan(&ev.Query, &ev.UserID, &ev.Timestamp, &ev.ResultsCount,
			&clickedJSON, &ev.SearchTimeMs, &ev.Refinements, &ev.Abandoned); err != nil {
			return nil, err
		}
		if clickedJSON.Valid && clickedJSON.String != "" {
			if err := json.Unmarshal([]byte(clickedJSON.String), &ev.ClickedResults); err != nil {
				return nil, fmt.Errorf("failed to unmarshal clicked results: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// PopularQueries groups stored events by query string, most frequent first.
func (s *AnalyticsStore) PopularQueries(ctx context.Context, limit int) ([]models.QueryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, COUNT(*) AS n FROM search_events
		 WHERE query != ''
		 GROUP BY query ORDER BY n DESC, query ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QueryCount
	for rows.Next() {
		var qc models.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, err
		}
		out = append(out, qc)
	}
	return out, rows.Err()
}

// CountEvents returns the total number of stored events.
func (s *AnalyticsStore) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_events`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *AnalyticsStore) Close() error {
	return s.db.Close()
}
