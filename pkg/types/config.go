// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "shopsearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a text-generation API.
type AIConfig struct {
	// Model is the generation model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature controls sampling randomness (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RetrievalConfig holds settings for the candidate retrieval stage.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the base URL of the vector search backend.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Token authenticates against the vector search backend.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Collection is the backend collection searched (default "product_search").
	Collection string `json:"collection" yaml:"collection"`

	// TopK is the number of candidates requested per source (default 10).
	TopK int `json:"top_k" yaml:"top_k"`

	// VectorDimension is the embedding dimensionality expected by the
	// backend (default 1536).
	VectorDimension int `json:"vector_dimension" yaml:"vector_dimension"`
}

// CatalogConfig holds settings for the local product catalog.
type CatalogConfig struct {
	// DBPath is the SQLite database file (default "data/catalog.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ProfileConfig holds settings for the user-profile store.
type ProfileConfig struct {
	// DBPath is the SQLite database file (default "data/profiles.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups the cross-cutting pipeline settings plus every
// stage configuration. Constructed once at startup and passed down; there is
// no ambient global configuration state.
type PipelineConfig struct {
	// MockResponses bypasses real AI and backend calls with deterministic
	// synthetic output.
	MockResponses bool `json:"mock_responses" yaml:"mock_responses"`

	// Debug enables debug_info with per-stage intermediate state.
	Debug bool `json:"debug" yaml:"debug"`

	// StageTimeout bounds each external call; an expired stage is treated
	// as failed, not hung (default 30s).
	StageTimeout time.Duration `json:"stage_timeout" yaml:"stage_timeout"`

	AI        AIConfig        `json:"ai" yaml:"ai"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Profile   ProfileConfig   `json:"profile" yaml:"profile"`
	Rules     BusinessRules   `json:"rules" yaml:"rules"`
}

// DefaultPipelineConfig returns the pipeline defaults used when a setting is
// absent from the config file.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		StageTimeout: 30 * time.Second,
		AI: AIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxRetries:  3,
		},
		Retrieval: RetrievalConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "shopsearch/0.1",
			},
			Collection:      "product_search",
			TopK:            10,
			VectorDimension: 1536,
		},
		Catalog: CatalogConfig{DBPath: "data/catalog.db"},
		Profile: ProfileConfig{DBPath: "data/profiles.db"},
		Rules:   DefaultBusinessRules(),
	}
}
