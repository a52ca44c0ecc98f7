// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the shopsearch pipeline.
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// Product is a catalog item as it flows through the pipeline. Products are
// immutable once retrieved; stages that need to annotate one wrap it in a
// ScoredCandidate instead of mutating it.
type Product struct {
	// ID is the canonical product identifier, stable within a catalog.
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Description is the free-text product description.
	Description string `json:"description" yaml:"description"`

	// Price is the list price. Never negative for a valid product.
	Price float64 `json:"price" yaml:"price"`

	// Category is the catalog category (e.g. "Smartphones", "Laptops").
	Category string `json:"category" yaml:"category"`

	// Attributes is an open mapping of additional product fields: brand,
	// color, size, views, conversions, rating, margin, stock_level,
	// days_since_added. Consumers read attributes through the accessors
	// below so every field has explicit default-on-absence semantics.
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
}

// AttrFloat returns the named attribute coerced to float64, or def when the
// attribute is absent or not numeric.
func (p Product) AttrFloat(key string, def float64) float64 {
	v, ok := p.Attributes[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return def
	}
}

// AttrString returns the named attribute as a string, or "" when absent or
// not a string.
func (p Product) AttrString(key string) string {
	s, _ := p.Attributes[key].(string)
	return s
}

// ScoredCandidate wraps a Product with the per-stage scores accumulated as it
// moves through the pipeline. A candidate is created by the source adapter
// with only RelevanceScore set and enriched additively by later stages.
type ScoredCandidate struct {
	Product Product `json:"product" yaml:"product"`

	// RelevanceScore is the retrieval-time relevance in [0,1].
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// PersonalizationScore is the user-affinity score in [0,1]. Nil until
	// the personalization stage runs.
	PersonalizationScore *float64 `json:"personalization_score,omitempty" yaml:"personalization_score,omitempty"`

	// RankingScore is the composite score computed by the ranker and
	// rescaled by the business-rule adjuster.
	RankingScore float64 `json:"ranking_score" yaml:"ranking_score"`

	// Explanation is an optional human-readable note on why the candidate
	// was surfaced.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Personalization returns the personalization score, or 0 when the stage has
// not run. Missing scores never propagate into arithmetic as nil.
func (c ScoredCandidate) Personalization() float64 {
	if c.PersonalizationScore == nil {
		return 0
	}
	return *c.PersonalizationScore
}

// PriceRange bounds the prices a user prefers.
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Preferences holds a user's stated shopping preferences.
type Preferences struct {
	// FavoriteCategories lists preferred catalog categories.
	FavoriteCategories []string `json:"favorite_categories" yaml:"favorite_categories"`

	// PriceRange is the preferred price band. A zero Max means no band.
	PriceRange PriceRange `json:"price_range" yaml:"price_range"`

	// Brands lists preferred brands.
	Brands []string `json:"brands" yaml:"brands"`

	// SizePreferences maps category to preferred size (e.g. clothing → "M").
	SizePreferences map[string]string `json:"size_preferences" yaml:"size_preferences"`

	// ColorPreferences lists preferred colors.
	ColorPreferences []string `json:"color_preferences" yaml:"color_preferences"`
}

// SearchRecord is one entry in a user's search history.
type SearchRecord struct {
	Query           string    `json:"query" yaml:"query"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	ClickedProducts []string  `json:"clicked_products" yaml:"clicked_products"`
}

// UserProfile holds preference and history data for personalization. Profiles
// are fetched fresh per query and read-only within the pipeline.
type UserProfile struct {
	UserID        string         `json:"user_id" yaml:"user_id"`
	Preferences   Preferences    `json:"preferences" yaml:"preferences"`
	SearchHistory []SearchRecord `json:"search_history" yaml:"search_history"`
	LastUpdated   time.Time      `json:"last_updated" yaml:"last_updated"`
}

// QueryType classifies a search query.
type QueryType string

const (
	QueryProductSearch  QueryType = "product_search"
	QueryComparison     QueryType = "comparison"
	QueryRecommendation QueryType = "recommendation"
	QueryFeatureSearch  QueryType = "feature_search"
)

// ResponseType selects the shape of the generated response.
type ResponseType string

const (
	ResponseList           ResponseType = "list"
	ResponseComparison     ResponseType = "comparison"
	ResponseRecommendation ResponseType = "recommendation"
)

// QueryPlan is the upfront decision of how to process a query. Produced once
// by the planning stage and immutable thereafter; the query type drives
// weight-profile selection in the ranker.
type QueryPlan struct {
	QueryType            QueryType    `json:"query_type" yaml:"query_type"`
	NeedsPersonalization bool         `json:"needs_personalization" yaml:"needs_personalization"`
	RankingCriteria      []string     `json:"ranking_criteria" yaml:"ranking_criteria"`
	ResponseType         ResponseType `json:"response_type" yaml:"response_type"`
}

// SearchResponse is the structure returned to the orchestrating caller. The
// pipeline guarantees a well-formed response even when stages degrade.
type SearchResponse struct {
	Query          string         `json:"query"`
	Products       []Product      `json:"products"`
	AIResponse     string         `json:"ai_response"`
	TotalResults   int            `json:"total_results"`
	ProcessingTime float64        `json:"processing_time"`
	FiltersApplied map[string]any `json:"filters_applied"`
	Suggestions    []string       `json:"suggestions,omitempty"`
	DebugInfo      map[string]any `json:"debug_info,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
