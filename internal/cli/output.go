// Package cli provides CLI output formatting for Shirabe.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.TookMs)
	for i, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. [%s] Score: %.4f\n", i+1, result.Item.Type, result.Score)
		fmt.Fprintf(w, "ID: %s\n", result.Item.ID)
		if result.Item.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", result.Item.Title)
		}
		if result.Explanation != "" {
			fmt.Fprintf(w, "Match: %s\n", result.Explanation)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Item.Content, 200))
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Related: %v\n", response.Suggestions)
	}
	if response.Facets != nil && len(response.Facets.Types) > 0 {
		fmt.Fprint(w, "By type:")
		for t, n := range response.Facets.Types {
			fmt.Fprintf(w, " %s=%d", t, n)
		}
		fmt.Fprintln(w)
	}
}
