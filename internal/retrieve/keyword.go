// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/shopsearch/pkg/types"
)

// Field weights for keyword matching.
const (
	nameDescWeight  = 0.5
	categoryWeight  = 0.3
	attributeWeight = 0.2
)

// KeywordScore computes a term-overlap score for a product against a query.
// Each field component is (matching query terms in field) / (query terms),
// weighted 0.5 for name+description, 0.3 for category, and 0.2 for the
// serialized attributes. Attribute serialization sorts keys so identical
// inputs always produce identical scores.
func KeywordScore(query string, p types.Product) float64 {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return 0
	}

	nameDesc := strings.ToLower(p.Name + " " + p.Description)
	category := strings.ToLower(p.Category)
	attributes := serializeAttributes(p.Attributes)

	var nameDescMatches, categoryMatches, attributeMatches int
	for _, term := range terms {
		if strings.Contains(nameDesc, term) {
			nameDescMatches++
		}
		if strings.Contains(category, term) {
			categoryMatches++
		}
		if strings.Contains(attributes, term) {
			attributeMatches++
		}
	}

	n := float64(len(terms))
	return float64(nameDescMatches)*nameDescWeight/n +
		float64(categoryMatches)*categoryWeight/n +
		float64(attributeMatches)*attributeWeight/n
}

// ScoreKeyword rescores candidates with the keyword fallback strategy: the
// term-overlap score is averaged 50/50 with each candidate's existing base
// relevance score.
func ScoreKeyword(query string, cands []types.ScoredCandidate) []types.ScoredCandidate {
	out := make([]types.ScoredCandidate, len(cands))
	for i, c := range cands {
		matchScore := KeywordScore(query, c.Product)
		c.RelevanceScore = (matchScore + c.RelevanceScore) / 2
		out[i] = c
	}
	return out
}

// queryTerms lowercases and splits the query into whitespace-separated terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// serializeAttributes flattens the attribute map into a lowercase string with
// deterministic key order.
func serializeAttributes(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", attrs[k])
	}
	return strings.ToLower(b.String())
}
