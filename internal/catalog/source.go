// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"

	"github.com/pdiddy/shopsearch/internal/retrieve"
	"github.com/pdiddy/shopsearch/pkg/types"
)

// baseRelevance is the relevance assigned to catalog products before keyword
// scoring adjusts it.
const baseRelevance = 0.5

// KeywordSource retrieves from the local catalog by term overlap. It backs up
// the vector source when that fails or returns nothing.
type KeywordSource struct {
	Store *Store
}

// Name identifies the source in fusion priority order and debug output.
func (s *KeywordSource) Name() string { return "keyword_fallback" }

// Search scores every catalog product against the query and returns the topK
// with a positive term overlap.
func (s *KeywordSource) Search(ctx context.Context, query string, topK int) ([]types.ScoredCandidate, error) {
	products, err := s.Store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("keyword fallback: %w", err)
	}

	var cands []types.ScoredCandidate
	for _, p := range products {
		if retrieve.KeywordScore(query, p) == 0 {
			continue
		}
		cands = append(cands, types.ScoredCandidate{Product: p, RelevanceScore: baseRelevance})
	}
	return retrieve.TopK(retrieve.ScoreKeyword(query, cands), topK), nil
}

// StructuredSource retrieves by explicit catalog filters (category, brand,
// price bounds), then keyword-scores the survivors against the query.
type StructuredSource struct {
	Store   *Store
	Filters Filters
}

// Name identifies the source in fusion priority order and debug output.
func (s *StructuredSource) Name() string { return "structured_db" }

// Search filters the catalog and ranks the matches by term overlap.
func (s *StructuredSource) Search(ctx context.Context, query string, topK int) ([]types.ScoredCandidate, error) {
	products, err := s.Store.Filter(ctx, s.Filters)
	if err != nil {
		return nil, fmt.Errorf("structured lookup: %w", err)
	}

	cands := make([]types.ScoredCandidate, 0, len(products))
	for _, p := range products {
		cands = append(cands, types.ScoredCandidate{Product: p, RelevanceScore: baseRelevance})
	}
	return retrieve.TopK(retrieve.ScoreKeyword(query, cands), topK), nil
}
