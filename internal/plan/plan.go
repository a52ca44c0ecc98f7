// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan classifies queries and decides how the pipeline processes
// them. A text-generation backend produces the plan; a keyword heuristic
// covers backend failures and mock mode.
//
// See docs/ARCHITECTURE.md § Planning.
package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/pdiddy/shopsearch/internal/genai"
	"github.com/pdiddy/shopsearch/pkg/types"
)

// planPromptTmpl asks the model to classify one query. The response must be a
// bare JSON object so it can be parsed directly.
var planPromptTmpl = template.Must(template.New("plan").Parse(`Analyze the following e-commerce search query and create a structured plan for processing it.

Query: "{{.Query}}"

Consider the following aspects:
1. Query type (product_search, comparison, recommendation, feature_search)
2. Whether personalization would be beneficial
3. What criteria should be used for ranking results
4. What type of response would be most helpful

Return your analysis as a JSON object with this structure:
{"query_type": "product_search", "needs_personalization": false, "ranking_criteria": ["relevance"], "response_type": "list"}

query_type must be one of product_search, comparison, recommendation, feature_search.
response_type must be one of list, comparison, recommendation.
Only return the JSON object, no other text.
`))

const planMaxTokens = 500

// Planner builds query plans through a generation backend.
type Planner struct {
	Generator  genai.Generator
	Model      string
	MaxRetries int
}

// Plan classifies the query. Any backend or parse failure degrades to the
// keyword heuristic, so Plan always returns a usable plan.
func (p *Planner) Plan(ctx context.Context, query string) types.QueryPlan {
	if p.Generator == nil {
		return HeuristicPlan(query)
	}

	prompt, err := renderPrompt(query)
	if err != nil {
		return HeuristicPlan(query)
	}

	resp, err := genai.GenerateWithRetry(ctx, p.Generator, genai.Request{
		Prompt:    prompt,
		Model:     p.Model,
		MaxTokens: planMaxTokens,
		// Classification wants determinism, not creativity.
		Temperature: 0.0,
	}, p.MaxRetries)
	if err != nil {
		return HeuristicPlan(query)
	}

	parsed, err := parsePlan(resp.Content)
	if err != nil {
		return HeuristicPlan(query)
	}
	return parsed
}

// HeuristicPlan builds a plan from query keywords alone. Queries asking for
// recommendations get the personalized recommendation treatment; everything
// else is a plain product search.
func HeuristicPlan(query string) types.QueryPlan {
	lower := strings.ToLower(query)
	for _, word := range []string{"recommend", "suggest", "best", "top"} {
		if strings.Contains(lower, word) {
			return types.QueryPlan{
				QueryType:            types.QueryRecommendation,
				NeedsPersonalization: true,
				RankingCriteria:      []string{"relevance", "rating", "popularity"},
				ResponseType:         types.ResponseRecommendation,
			}
		}
	}
	return types.QueryPlan{
		QueryType:            types.QueryProductSearch,
		NeedsPersonalization: false,
		RankingCriteria:      []string{"relevance"},
		ResponseType:         types.ResponseList,
	}
}

// parsePlan decodes the model's JSON and normalizes missing fields. Unknown
// query types pass through unchanged; the ranker falls back on its default
// weight profile for them.
func parsePlan(content string) (types.QueryPlan, error) {
	var plan types.QueryPlan
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &plan); err != nil {
		return types.QueryPlan{}, err
	}
	if plan.QueryType == "" {
		plan.QueryType = types.QueryProductSearch
	}
	if len(plan.RankingCriteria) == 0 {
		plan.RankingCriteria = []string{"relevance"}
	}
	if plan.ResponseType == "" {
		plan.ResponseType = types.ResponseList
	}
	return plan, nil
}

func renderPrompt(query string) (string, error) {
	var buf bytes.Buffer
	if err := planPromptTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
