package benchmark

import (
	"fmt"
	"testing"

	"github.com/hyperjump/shirabe/internal/analytics"
	"github.com/hyperjump/shirabe/internal/index"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/ranking"
	"github.com/hyperjump/shirabe/internal/search"
	"github.com/hyperjump/shirabe/internal/vector"
)

func BenchmarkGenerate(b *testing.B) {
	gen := vector.NewGenerator(vector.DefaultDimensions)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.Generate("archive rules for incoming project mail")
	}
}

func BenchmarkScore(b *testing.B) {
	scorer := ranking.NewScorer()
	item := &models.IndexedItem{
		Title:      "Archive rules",
		Content:    "Rules move project mail into the archive folder automatically.",
		Tags:       []string{"archive", "mail"},
		Importance: 0.8,
	}
	terms := []string{"archive", "mail"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = scorer.Score(item, terms, ranking.Options{})
	}
}

func BenchmarkSearch(b *testing.B) {
	gen := vector.NewGenerator(vector.DefaultDimensions)
	store := index.NewStore(gen)
	for i := 0; i < 1000; i++ {
		store.Add(models.IndexedItem{
			Type:       models.ItemTypeDocument,
			Title:      fmt.Sprintf("document %d about archives", i),
			Content:    "archive rules and retention policies",
			Importance: float64(i%10+1) / 10,
		})
	}
	engine := search.NewEngine(store, ranking.NewScorer(), gen, analytics.NewRecorder())
	query := models.SearchQuery{Query: "archive", Limit: 10}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Search(query)
	}
}
