// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank computes composite ranking scores from relevance,
// personalization, popularity, and conversion signals, then rescales them with
// business rules.
//
// See docs/ARCHITECTURE.md § Ranking.
package rank

import (
	"slices"
	"sort"

	"github.com/pdiddy/shopsearch/pkg/types"
)

// Weights are the per-signal multipliers for one query type.
type Weights struct {
	Relevance       float64
	Personalization float64
	Popularity      float64
	Conversion      float64
}

var weightProfiles = map[types.QueryType]Weights{
	types.QueryProductSearch: {
		Relevance: 0.4, Personalization: 0.3, Popularity: 0.2, Conversion: 0.1,
	},
	types.QueryComparison: {
		Relevance: 0.3, Personalization: 0.2, Popularity: 0.25, Conversion: 0.25,
	},
	types.QueryRecommendation: {
		Relevance: 0.3, Personalization: 0.4, Popularity: 0.2, Conversion: 0.1,
	},
}

// WeightsFor returns the weight profile for a query type. Unrecognized types
// (feature_search included) fall back to the product_search profile.
func WeightsFor(queryType types.QueryType) Weights {
	if w, ok := weightProfiles[queryType]; ok {
		return w
	}
	return weightProfiles[types.QueryProductSearch]
}

// recencyBoost applies to products added fewer than recencyWindowDays ago.
const (
	recencyBoost      = 1.1
	recencyWindowDays = 30
	// Products without a days_since_added attribute count as old.
	defaultDaysSinceAdded = 100
)

// PopularityScore derives a [0,1] popularity signal from view count and
// rating. Products with no views or no rating score 0.
func PopularityScore(p types.Product) float64 {
	views := p.AttrFloat("views", 0)
	rating := p.AttrFloat("rating", 0)
	return min((views/1000)*(rating/5), 1.0)
}

// ConversionScore derives a [0,1] conversion signal from conversions per
// view. A missing view count is treated as one view to avoid dividing by
// zero.
func ConversionScore(p types.Product) float64 {
	conversions := p.AttrFloat("conversions", 0)
	views := max(p.AttrFloat("views", 1), 1)
	return min(conversions/views, 1.0)
}

func isRecent(p types.Product) bool {
	return p.AttrFloat("days_since_added", defaultDaysSinceAdded) < recencyWindowDays
}

// Score computes the composite ranking score for one candidate.
func Score(c types.ScoredCandidate, w Weights) float64 {
	score := c.RelevanceScore*w.Relevance +
		c.Personalization()*w.Personalization +
		PopularityScore(c.Product)*w.Popularity +
		ConversionScore(c.Product)*w.Conversion
	if isRecent(c.Product) {
		score *= recencyBoost
	}
	return score
}

// Rank scores every candidate with the query type's weight profile and sorts
// by ranking score descending. The sort is stable: ties retain prior relative
// order. Inputs are not mutated.
func Rank(cands []types.ScoredCandidate, queryType types.QueryType) []types.ScoredCandidate {
	w := WeightsFor(queryType)
	out := make([]types.ScoredCandidate, len(cands))
	for i, c := range cands {
		c.RankingScore = Score(c, w)
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankingScore > out[j].RankingScore
	})
	return out
}

// AdjustByRules rescales ranking scores with promotion, demotion, and
// category-boost multipliers, then re-sorts once. Each multiplier gates on its
// own predicate, so a candidate can receive several. Candidates are never
// dropped here. Inputs are not mutated.
func AdjustByRules(cands []types.ScoredCandidate, rules types.BusinessRules) []types.ScoredCandidate {
	out := make([]types.ScoredCandidate, len(cands))
	for i, c := range cands {
		if shouldPromote(c.Product, rules) {
			c.RankingScore *= rules.PromotionBoost
		}
		if shouldDemote(c.Product, rules) {
			c.RankingScore *= rules.DemotionFactor
		}
		if slices.Contains(rules.BoostedCategories, c.Product.Category) {
			c.RankingScore *= rules.CategoryBoost
		}
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankingScore > out[j].RankingScore
	})
	return out
}

func shouldPromote(p types.Product, rules types.BusinessRules) bool {
	if slices.Contains(rules.PromotedProducts, p.ID) {
		return true
	}
	if slices.Contains(rules.PromotedCategories, p.Category) {
		return true
	}
	return p.AttrFloat("margin", 0) >= rules.MinMarginForPromotion
}

func shouldDemote(p types.Product, rules types.BusinessRules) bool {
	if slices.Contains(rules.DemotedProducts, p.ID) {
		return true
	}
	if p.AttrFloat("stock_level", 0) < rules.MinStockLevel {
		return true
	}
	return p.AttrFloat("margin", 0) < rules.MinMargin
}
