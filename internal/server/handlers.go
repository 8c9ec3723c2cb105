package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	start := time.Now()
	response := s.engine.Search(query)
	searchesTotal.WithLabelValues("full").Inc()
	searchDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := queryInt(r, "limit", 0)
	start := time.Now()
	results := s.engine.SemanticSearch(q, limit)
	searchesTotal.WithLabelValues("semantic").Inc()
	searchDuration.WithLabelValues("semantic").Observe(time.Since(start).Seconds())
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"results": results, "query": q})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 10)
	suggestions := s.complete.Suggestions(q, limit)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var item models.IndexedItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stored := s.store.Add(item)
	s.logger.Debug("item indexed", zap.String("id", stored.ID), zap.String("title", stored.Title))
	s.respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, ok := s.store.Update(id, patch)
	if !ok {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := s.store.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Remove(id) {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleClearIndex(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var event models.AnalyticsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stored := s.analytics.Track(event)
	s.respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	from, ok := queryTime(r, "from")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid from timestamp")
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid to timestamp")
		return
	}
	events := s.analytics.Events(userID, from, to)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (s *Server) handlePopularQueries(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"queries": s.analytics.PopularQueries(limit),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":            s.store.Size(),
		"analytics_events": s.analytics.Size(),
		"query_history":    len(s.engine.QueryHistory()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryTime parses an optional RFC 3339 query parameter. Absent values return
// the zero time; malformed values return ok=false.
func queryTime(r *http.Request, key string) (time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
