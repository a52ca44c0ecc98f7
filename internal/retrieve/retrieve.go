// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve normalizes raw backend records into scored candidates and
// selects the top results. Two retrieval strategies feed the adapter: vector
// sources annotate records with a similarity score that passes through as the
// relevance score, and keyword sources score term overlap locally.
//
// See docs/ARCHITECTURE.md § Retrieval.
package retrieve

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/shopsearch/pkg/types"
)

// Source retrieves candidates for a query. Each source (vector backend,
// catalog keyword fallback, structured catalog lookup) implements this
// interface per the Strategy pattern.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, topK int) ([]types.ScoredCandidate, error)
}

// RawRecord is an untyped backend record as returned by a retrieval source.
type RawRecord map[string]any

// defaultSimilarity is used when a record carries no similarity indicator.
const defaultSimilarity = 0.5

// FromRecord normalizes a raw backend record into a ScoredCandidate. Missing
// or malformed numeric fields coerce to safe defaults (price 0.0) rather than
// failing; a record without a usable id is the one per-record defect that is
// reported, so the caller can skip it without aborting the batch.
func FromRecord(rec RawRecord) (types.ScoredCandidate, error) {
	id := stringField(rec, "id")
	if id == "" {
		id = stringField(rec, "_id")
	}
	if id == "" {
		return types.ScoredCandidate{}, fmt.Errorf("record has no id")
	}

	attrs, _ := rec["attributes"].(map[string]any)
	if attrs == nil {
		attrs = map[string]any{}
	}
	// Promote well-known top-level fields the backends store outside the
	// attributes map.
	for _, key := range []string{"subcategory", "brand", "color", "size", "rating", "features"} {
		if v, ok := rec[key]; ok {
			if _, exists := attrs[key]; !exists {
				attrs[key] = v
			}
		}
	}

	product := types.Product{
		ID:          id,
		Name:        stringField(rec, "name"),
		Description: stringField(rec, "description"),
		Price:       floatField(rec, "price", 0.0),
		Category:    stringField(rec, "category"),
		Attributes:  attrs,
	}
	if product.Price < 0 {
		product.Price = 0.0
	}

	return types.ScoredCandidate{
		Product:        product,
		RelevanceScore: similarity(rec),
	}, nil
}

// Adapted holds the outcome of adapting a batch of raw records.
type Adapted struct {
	Candidates []types.ScoredCandidate
	Skipped    int
}

// AdaptRecords converts a batch of raw records, skipping malformed ones.
// Warnings for skipped records go to warn, which may be nil.
func AdaptRecords(records []RawRecord, warn func(format string, args ...any)) Adapted {
	out := Adapted{Candidates: make([]types.ScoredCandidate, 0, len(records))}
	for i, rec := range records {
		cand, err := FromRecord(rec)
		if err != nil {
			out.Skipped++
			if warn != nil {
				warn("warning: skipping record %d: %v", i, err)
			}
			continue
		}
		out.Candidates = append(out.Candidates, cand)
	}
	return out
}

// TopK sorts candidates by relevance descending and truncates to k. The sort
// is stable: candidates appearing earlier in the input retain relative order
// on ties.
func TopK(cands []types.ScoredCandidate, k int) []types.ScoredCandidate {
	sorted := make([]types.ScoredCandidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RelevanceScore > sorted[j].RelevanceScore
	})
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// similarity extracts the relevance indicator from a record, defaulting to
// 0.5 when absent.
func similarity(rec RawRecord) float64 {
	for _, key := range []string{"$similarity", "similarity", "relevance_score"} {
		if v, ok := rec[key]; ok {
			if f, ok := toFloat(v); ok {
				return f
			}
		}
	}
	return defaultSimilarity
}

func stringField(rec RawRecord, key string) string {
	switch v := rec[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func floatField(rec RawRecord, key string, def float64) float64 {
	if v, ok := rec[key]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
