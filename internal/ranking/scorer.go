// Package ranking computes relevance scores for indexed items against
// tokenized queries: field-weighted term overlap scaled by importance,
// boosted by recency, with optional fuzzy matching and semantic similarity.
package ranking

import (
	"math"
	"strings"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/tokenize"
	"github.com/hyperjump/shirabe/internal/vector"
)

// Field weights and scoring constants.
const (
	TitleWeight   = 3.0
	ContentWeight = 1.0
	TagWeight     = 2.0

	// SemanticBoost scales the cosine similarity added when semantic
	// matching is requested.
	SemanticBoost = 5.0

	// FuzzyMaxDistance is the maximum Levenshtein distance for a fuzzy match.
	FuzzyMaxDistance = 2

	// RecencyHalfLifeDays controls the exponential time decay of the
	// recency boost.
	RecencyHalfLifeDays = 365.0
)

// Options carries per-query scoring switches. QueryVector is only consulted
// when Semantic is set.
type Options struct {
	Fuzzy       bool
	Semantic    bool
	QueryVector []float32
}

// Breakdown records how a score was composed, for explanations and debugging.
type Breakdown struct {
	TitleMatches   int
	ContentMatches int
	TagMatches     int
	Base           float64
	RecencyBoost   float64
	SemanticScore  float64
	Final          float64
}

// Scorer computes match scores. It is stateless apart from the clock, which
// is injectable for deterministic recency tests.
type Scorer struct {
	now func() time.Time
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithClock overrides the time source used for recency decay.
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) { s.now = now }
}

// NewScorer creates a scorer.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the relevance score of item for the tokenized query terms.
func (s *Scorer) Score(item *models.IndexedItem, terms []string, opts Options) float64 {
	return s.ScoreWithBreakdown(item, terms, opts).Final
}

// ScoreWithBreakdown scores the item and reports each contribution:
//  1. weighted overlap of query terms against title tokens (x3), content
//     tokens (x1), and tags (x2), each term matching by substring or by
//     Levenshtein distance <= 2 when fuzzy is enabled;
//  2. the summed overlap is multiplied by the item's importance;
//  3. a recency boost of (1 + exp(-days/365)) multiplies the result, so a
//     fresh item scores up to twice its base and old items keep the base;
//  4. when semantic is requested and both vectors exist, 5x the cosine
//     similarity is added on top.
func (s *Scorer) ScoreWithBreakdown(item *models.IndexedItem, terms []string, opts Options) Breakdown {
	var bd Breakdown
	if len(terms) == 0 {
		return bd
	}

	bd.TitleMatches = countMatches(terms, tokenize.Tokenize(item.Title), opts.Fuzzy)
	bd.ContentMatches = countMatches(terms, tokenize.Tokenize(item.Content), opts.Fuzzy)
	bd.TagMatches = countMatches(terms, lowered(item.Tags), opts.Fuzzy)

	overlap := TitleWeight*float64(bd.TitleMatches) +
		ContentWeight*float64(bd.ContentMatches) +
		TagWeight*float64(bd.TagMatches)
	bd.Base = overlap * item.Importance

	days := s.now().Sub(item.LastUpdated).Hours() / 24
	bd.RecencyBoost = 1 + math.Exp(-days/RecencyHalfLifeDays)
	score := bd.Base * bd.RecencyBoost

	if opts.Semantic && len(item.SemanticVector) > 0 && len(opts.QueryVector) > 0 {
		bd.SemanticScore = vector.CosineSimilarity(opts.QueryVector, item.SemanticVector)
		score += SemanticBoost * bd.SemanticScore
	}
	bd.Final = score
	return bd
}

// countMatches returns how many query terms match at least one candidate
// token. A term matches by substring containment, or within FuzzyMaxDistance
// edits when fuzzy is enabled.
func countMatches(terms, tokens []string, fuzzy bool) int {
	if len(tokens) == 0 {
		return 0
	}
	matched := 0
	for _, term := range terms {
		for _, tok := range tokens {
			if matchToken(term, tok, fuzzy) {
				matched++
				break
			}
		}
	}
	return matched
}

func matchToken(term, token string, fuzzy bool) bool {
	if strings.Contains(token, term) {
		return true
	}
	if fuzzy {
		return tokenize.LevenshteinDistance(term, token) <= FuzzyMaxDistance
	}
	return false
}

func lowered(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(t)
	}
	return out
}
