// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "github.com/pdiddy/shopsearch/pkg/types"

// DemoProducts returns the built-in demo catalog used by mock mode and by
// `shopsearch catalog seed --demo`.
func DemoProducts() []types.Product {
	return []types.Product{
		{
			ID:          "phone_1",
			Name:        "UltraPhone Pro Max",
			Description: "High-end smartphone with exceptional camera quality and performance",
			Price:       899.99,
			Category:    "Smartphones",
			Attributes: map[string]any{
				"brand":             "UltraPhone",
				"color":             "Midnight Blue",
				"storage":           "256GB",
				"camera":            "108MP",
				"battery":           "5000mAh",
				"screen":            "6.7 inch AMOLED",
				"camera_score":      95,
				"performance_score": 92,
				"battery_score":     88,
			},
		},
		{
			ID:          "phone_2",
			Name:        "BudgetKing 5G",
			Description: "Best value smartphone with great features at an affordable price",
			Price:       399.99,
			Category:    "Smartphones",
			Attributes: map[string]any{
				"brand":             "BudgetKing",
				"color":             "Forest Green",
				"storage":           "128GB",
				"camera":            "64MP",
				"battery":           "4500mAh",
				"screen":            "6.5 inch LCD",
				"camera_score":      82,
				"performance_score": 78,
				"battery_score":     85,
			},
		},
		{
			ID:          "laptop_1",
			Name:        "GameMaster X",
			Description: "Ultimate gaming laptop with RTX 4080 and 32GB RAM",
			Price:       2499.99,
			Category:    "Laptops",
			Attributes: map[string]any{
				"brand":             "GameMaster",
				"color":             "Black",
				"cpu":               "Intel i9-13900H",
				"gpu":               "RTX 4080",
				"ram":               "32GB",
				"storage":           "2TB SSD",
				"screen":            "17.3 inch 240Hz",
				"gaming_score":      98,
				"performance_score": 95,
				"battery_score":     75,
			},
		},
		{
			ID:          "laptop_2",
			Name:        "WorkPro Ultra",
			Description: "Professional laptop for content creators and developers",
			Price:       1799.99,
			Category:    "Laptops",
			Attributes: map[string]any{
				"brand":                  "WorkPro",
				"color":                  "Silver",
				"cpu":                    "AMD Ryzen 9",
				"gpu":                    "RTX 4060",
				"ram":                    "64GB",
				"storage":                "1TB SSD",
				"screen":                 "15.6 inch 4K",
				"content_creation_score": 94,
				"performance_score":      90,
				"battery_score":          85,
			},
		},
	}
}
