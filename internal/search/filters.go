package search

import (
	"time"

	"github.com/hyperjump/shirabe/internal/models"
)

// filterByType keeps only items whose type is in the given set. An empty set
// keeps everything.
func filterByType(items []*models.IndexedItem, types []models.ItemType) []*models.IndexedItem {
	if len(types) == 0 {
		return items
	}
	allowed := make(map[models.ItemType]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	out := make([]*models.IndexedItem, 0, len(items))
	for _, item := range items {
		if _, ok := allowed[item.Type]; ok {
			out = append(out, item)
		}
	}
	return out
}

// applyFilters evaluates custom filters against each item. Date bounds apply
// to LastUpdated, category matches exactly, tags require every listed tag to
// be present, and any other key must equal the item's metadata value. An item
// failing any filter key is excluded.
func applyFilters(items []*models.IndexedItem, filters map[string]interface{}) []*models.IndexedItem {
	if len(filters) == 0 {
		return items
	}
	out := make([]*models.IndexedItem, 0, len(items))
	for _, item := range items {
		if matchesFilters(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

func matchesFilters(item *models.IndexedItem, filters map[string]interface{}) bool {
	for key, want := range filters {
		switch key {
		case models.FilterDateFrom:
			t, ok := asTime(want)
			if !ok || item.LastUpdated.Before(t) {
				return false
			}
		case models.FilterDateTo:
			t, ok := asTime(want)
			if !ok || item.LastUpdated.After(t) {
				return false
			}
		case models.FilterCategory:
			s, ok := want.(string)
			if !ok || item.Category != s {
				return false
			}
		case models.FilterTags:
			if !hasAllTags(item.Tags, want) {
				return false
			}
		default:
			got, ok := item.Metadata[key]
			if !ok || !scalarEqual(got, want) {
				return false
			}
		}
	}
	return true
}

// asTime accepts time.Time values and RFC 3339 strings, the two shapes a
// filter value takes depending on whether it arrived via Go code or JSON.
func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// hasAllTags reports whether every wanted tag is present on the item. The
// filter value may be []string or []interface{} of strings (JSON decoding).
func hasAllTags(itemTags []string, want interface{}) bool {
	var wanted []string
	switch w := want.(type) {
	case []string:
		wanted = w
	case []interface{}:
		for _, v := range w {
			s, ok := v.(string)
			if !ok {
				return false
			}
			wanted = append(wanted, s)
		}
	case string:
		wanted = []string{w}
	default:
		return false
	}
	have := make(map[string]struct{}, len(itemTags))
	for _, t := range itemTags {
		have[t] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := have[w]; !ok {
			return false
		}
	}
	return true
}

// scalarEqual compares metadata scalars across the type drift JSON decoding
// introduces (all numbers arrive as float64).
func scalarEqual(got, want interface{}) bool {
	if gn, ok := asFloat(got); ok {
		if wn, ok := asFloat(want); ok {
			return gn == wn
		}
		return false
	}
	if gt, ok := got.(time.Time); ok {
		if wt, ok := asTime(want); ok {
			return gt.Equal(wt)
		}
		return false
	}
	return got == want
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
