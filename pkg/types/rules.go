// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BusinessRules holds the merchandising and compliance rules applied to
// ranked results. Process-wide defaults come from DefaultBusinessRules and
// may be overridden per request from a YAML rules file.
type BusinessRules struct {
	// MinPrice and MaxPrice bound acceptable product prices, inclusive.
	MinPrice float64 `json:"min_price" yaml:"min_price"`
	MaxPrice float64 `json:"max_price" yaml:"max_price"`

	// RequiredFields lists product fields that must be non-empty for a
	// candidate to survive the guardrail filter.
	RequiredFields []string `json:"required_fields" yaml:"required_fields"`

	// BannedKeywords rejects any product whose description contains one.
	BannedKeywords []string `json:"banned_keywords" yaml:"banned_keywords"`

	// PromotedProducts and DemotedProducts select candidates by product id.
	PromotedProducts []string `json:"promoted_products" yaml:"promoted_products"`
	DemotedProducts  []string `json:"demoted_products" yaml:"demoted_products"`

	// PromotedCategories qualify a candidate for the promotion boost;
	// BoostedCategories receive the separate category boost.
	PromotedCategories []string `json:"promoted_categories" yaml:"promoted_categories"`
	BoostedCategories  []string `json:"boosted_categories" yaml:"boosted_categories"`

	// Score multipliers.
	PromotionBoost float64 `json:"promotion_boost" yaml:"promotion_boost"`
	DemotionFactor float64 `json:"demotion_factor" yaml:"demotion_factor"`
	CategoryBoost  float64 `json:"category_boost" yaml:"category_boost"`

	// Margin and stock thresholds read from product attributes.
	MinMarginForPromotion float64 `json:"min_margin_for_promotion" yaml:"min_margin_for_promotion"`
	MinMargin             float64 `json:"min_margin" yaml:"min_margin"`
	MinStockLevel         float64 `json:"min_stock_level" yaml:"min_stock_level"`
}

// DefaultBusinessRules returns the process-wide rule defaults.
func DefaultBusinessRules() BusinessRules {
	return BusinessRules{
		MinPrice:              0.01,
		MaxPrice:              1000000,
		RequiredFields:        []string{"name", "price", "description"},
		BannedKeywords:        []string{"counterfeit", "fake", "replica"},
		PromotionBoost:        1.2,
		DemotionFactor:        0.8,
		CategoryBoost:         1.1,
		MinMarginForPromotion: 0.25,
	}
}
