// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package personalize scores candidates against a user profile and reorders
// them by combined relevance and affinity.
//
// See docs/ARCHITECTURE.md § Personalization.
package personalize

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/shopsearch/pkg/types"
)

// ProfileStore looks up user profiles. The SQLite implementation lives in
// internal/profile; tests supply a mock.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (types.UserProfile, error)
}

// Dimension weights for the affinity score. Each weight applies fully when
// its preference matches; a missing preference contributes nothing.
const (
	categoryWeight = 0.30
	brandWeight    = 0.20
	priceWeight    = 0.20
	colorWeight    = 0.15
	sizeWeight     = 0.15
)

// explainThreshold is the affinity score above which an explanation is
// attached to the candidate.
const explainThreshold = 0.7

// Score computes the user-affinity score for a product in [0,1] as a weighted
// sum of independent boolean preference matches, capped at 1.0.
func Score(p types.Product, profile types.UserProfile) float64 {
	prefs := profile.Preferences
	score := 0.0

	if containsFold(prefs.FavoriteCategories, p.Category) {
		score += categoryWeight
	}
	if brand := p.AttrString("brand"); brand != "" && containsFold(prefs.Brands, brand) {
		score += brandWeight
	}
	if prefs.PriceRange.Max > 0 && prefs.PriceRange.Min <= p.Price && p.Price <= prefs.PriceRange.Max {
		score += priceWeight
	}
	if color := p.AttrString("color"); color != "" && containsFold(prefs.ColorPreferences, color) {
		score += colorWeight
	}
	if wantSize, ok := sizeFor(prefs.SizePreferences, p.Category); ok && p.AttrString("size") == wantSize {
		score += sizeWeight
	}

	return min(score, 1.0)
}

// Explain lists the matched preference dimensions for a product, in category,
// brand, color priority order. Returns "" when nothing matched.
func Explain(p types.Product, profile types.UserProfile) string {
	prefs := profile.Preferences
	var reasons []string

	if containsFold(prefs.FavoriteCategories, p.Category) {
		reasons = append(reasons, "Matches your interest in "+p.Category)
	}
	if brand := p.AttrString("brand"); brand != "" && containsFold(prefs.Brands, brand) {
		reasons = append(reasons, "From "+brand+", one of your preferred brands")
	}
	if color := p.AttrString("color"); color != "" && containsFold(prefs.ColorPreferences, color) {
		reasons = append(reasons, "Available in "+color+", a color you like")
	}

	if len(reasons) == 0 {
		return ""
	}
	return "Recommended because: " + strings.Join(reasons, "; ")
}

// Apply scores every candidate against the profile, attaches explanations for
// high-affinity matches, and re-sorts by (relevance + personalization)/2
// descending. This ordering key is distinct from the composite ranking score
// computed later; the ranker fully re-sorts downstream. Inputs are not
// mutated.
func Apply(cands []types.ScoredCandidate, profile types.UserProfile) []types.ScoredCandidate {
	out := make([]types.ScoredCandidate, len(cands))
	for i, c := range cands {
		s := Score(c.Product, profile)
		c.PersonalizationScore = &s
		if s > explainThreshold {
			if expl := Explain(c.Product, profile); expl != "" {
				c.Explanation = expl
			}
		}
		out[i] = c
	}

	sort.SliceStable(out, func(i, j int) bool {
		return (out[i].RelevanceScore+out[i].Personalization())/2 >
			(out[j].RelevanceScore+out[j].Personalization())/2
	})
	return out
}

func containsFold(haystack []string, needle string) bool {
	return slices.ContainsFunc(haystack, func(s string) bool {
		return strings.EqualFold(s, needle)
	})
}

// sizeFor finds the preferred size for a category, case-insensitively.
func sizeFor(prefs map[string]string, category string) (string, bool) {
	for cat, size := range prefs {
		if strings.EqualFold(cat, category) {
			return size, true
		}
	}
	return "", false
}
