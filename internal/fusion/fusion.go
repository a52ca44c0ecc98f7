// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fusion merges candidate lists from multiple retrieval sources into
// one deduplicated list.
//
// See docs/ARCHITECTURE.md § Fusion.
package fusion

import "github.com/pdiddy/shopsearch/pkg/types"

// Result holds the fused candidate list and merge statistics.
type Result struct {
	// Candidates contains at most one entry per product id: the one with
	// the highest relevance score across all input lists. Order is
	// first-seen order; the ranker re-sorts downstream.
	Candidates []types.ScoredCandidate

	// Duplicates counts entries dropped because a better-scoring candidate
	// with the same id was kept.
	Duplicates int

	// Malformed counts entries dropped for having an empty product id.
	Malformed int
}

// Fuse merges candidate lists in priority order: lists appearing earlier win
// exact relevance ties (e.g. vector results passed before structured-db
// results). A candidate replaces an earlier one with the same product id only
// when its relevance score is strictly greater.
func Fuse(lists ...[]types.ScoredCandidate) Result {
	var res Result
	index := make(map[string]int) // product id → position in Candidates

	for _, list := range lists {
		for _, cand := range list {
			id := cand.Product.ID
			if id == "" {
				res.Malformed++
				continue
			}
			pos, seen := index[id]
			if !seen {
				index[id] = len(res.Candidates)
				res.Candidates = append(res.Candidates, cand)
				continue
			}
			res.Duplicates++
			if cand.RelevanceScore > res.Candidates[pos].RelevanceScore {
				res.Candidates[pos] = cand
			}
		}
	}
	return res
}
