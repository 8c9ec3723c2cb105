// Package vector provides the deterministic pseudo-semantic vector generator
// and cosine similarity helpers.
package vector

import (
	"math"

	"github.com/hyperjump/shirabe/internal/tokenize"
	"github.com/hyperjump/shirabe/pkg/utils"
)

// DefaultDimensions is the fixed vector length shared by all items so that
// cosine similarity is always well-defined.
const DefaultDimensions = 100

// Generator produces a fixed-dimension pseudo-semantic vector for a text blob
// via a hashing/trigonometric projection. It is a deterministic placeholder
// for a real embedding model: stable across runs and suitable only for
// approximate similarity. A true embedding model can be substituted behind the
// same interface without changing the scoring contract.
type Generator struct {
	dimensions int
}

// NewGenerator returns a generator producing vectors of the given dimension.
// Non-positive dimensions fall back to DefaultDimensions.
func NewGenerator(dimensions int) *Generator {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Generator{dimensions: dimensions}
}

// Dimensions returns the output vector length.
func (g *Generator) Dimensions() int {
	return g.dimensions
}

// Generate tokenizes text and accumulates, per token, 0.1*sin(hash+i) into
// each dimension i, then L2-normalizes. Empty or all-noise text yields the
// zero vector (never a division by zero).
func (g *Generator) Generate(text string) []float32 {
	vec := make([]float32, g.dimensions)
	for _, tok := range tokenize.Tokenize(text) {
		h := hashToken(tok)
		for i := 0; i < g.dimensions; i++ {
			vec[i] += float32(0.1 * math.Sin(float64(h)+float64(i)))
		}
	}
	utils.NormalizeL2(vec)
	return vec
}

// hashToken computes a 32-bit rolling hash over the token's code points.
// Overflow wraps to signed 32-bit, matching the classic hash*31+c scheme.
func hashToken(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// CosineSimilarity returns dot(a,b)/(|a|*|b|) in [-1,1]. It returns 0 when
// either vector is empty, the lengths differ, or either norm is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
