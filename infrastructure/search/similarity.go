// Package search ranks stored documents against query vectors.
//
// The authoritative convention throughout this codebase is raw cosine
// similarity: higher means more related, and rankings sort descending.
// Distances (1 - similarity) are never used as a ranking key.
package search

import (
	"math"
	"sort"

	"github.com/AayushMore1708/api-hub/domain/document"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical direction).
// Mismatched dimensions or a zero-magnitude vector yield 0 rather than an
// error, so a single malformed stored vector cannot abort a ranking pass.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Match pairs a document with its similarity to a query vector.
type Match struct {
	doc        document.Document
	similarity float64
}

// Document returns the matched document.
func (m Match) Document() document.Document { return m.doc }

// Similarity returns the cosine similarity score.
func (m Match) Similarity() float64 { return m.similarity }

// TopK ranks candidates by cosine similarity to the query vector and
// returns the k best matches, most similar first. Ties preserve candidate
// order.
func TopK(query []float64, candidates []document.Document, k int) []Match {
	if len(candidates) == 0 || k <= 0 {
		return []Match{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, Match{
			doc:        c,
			similarity: CosineSimilarity(query, c.Vector()),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
