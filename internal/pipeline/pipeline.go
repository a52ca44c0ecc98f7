// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the search stages: planning, retrieval, fusion,
// personalization, ranking, rule adjustment, response generation, and the
// guardrail pass. Each stage degrades independently; the entry point always
// returns a well-formed response except for empty-query validation.
//
// See docs/ARCHITECTURE.md § Orchestrator.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/shopsearch/internal/catalog"
	"github.com/pdiddy/shopsearch/internal/fusion"
	"github.com/pdiddy/shopsearch/internal/guardrail"
	"github.com/pdiddy/shopsearch/internal/personalize"
	"github.com/pdiddy/shopsearch/internal/plan"
	"github.com/pdiddy/shopsearch/internal/rank"
	"github.com/pdiddy/shopsearch/internal/respond"
	"github.com/pdiddy/shopsearch/internal/retrieve"
	"github.com/pdiddy/shopsearch/pkg/types"
)

// Query is one search request from the orchestrating caller.
type Query struct {
	Query   string
	UserID  string
	Filters map[string]any
	Context map[string]any
}

// Orchestrator wires the pipeline stages together. All fields are read-only
// once constructed, so one Orchestrator serves concurrent queries.
type Orchestrator struct {
	// Planner classifies queries. Optional; nil falls back to the keyword
	// heuristic inside plan.HeuristicPlan.
	Planner *plan.Planner

	// Primary is the vector retrieval source. Fallback covers primary
	// failure or empty primary results. At least one must be set.
	Primary  retrieve.Source
	Fallback retrieve.Source

	// Catalog enables the structured source when a query carries the
	// use_structured filter. Optional.
	Catalog *catalog.Store

	// Profiles supplies user profiles for personalization. Optional; a
	// missing store or missing profile skips the stage.
	Profiles personalize.ProfileStore

	// Responder generates the conversational summary and suggestions.
	Responder *respond.Generator

	Rules  types.BusinessRules
	Config types.PipelineConfig

	// Warn receives stage degradation notices. Nil discards them.
	Warn io.Writer
}

const defaultStageTimeout = 30 * time.Second

// Process runs one query through the pipeline. The only caller-visible error
// is empty-query validation; every other failure degrades within the
// pipeline, worst case returning FallbackResponse.
func (o *Orchestrator) Process(ctx context.Context, q Query) (types.SearchResponse, error) {
	if q.Query == "" {
		return types.SearchResponse{}, fmt.Errorf("query must not be empty")
	}

	start := time.Now()
	debug := map[string]any{}

	queryPlan := o.planStage(ctx, q.Query)
	debug["plan"] = queryPlan

	fused, sourcesTried, sourcesFailed := o.retrieveStage(ctx, q)
	if sourcesTried > 0 && sourcesFailed == sourcesTried {
		// Every retrieval path is down. Return the canned fallback rather
		// than an authoritative "nothing matched".
		o.warnf("warning: all %d retrieval sources failed\n", sourcesFailed)
		return FallbackResponse(q.Query), nil
	}
	debug["retrieved"] = len(fused.Candidates)
	debug["duplicates_merged"] = fused.Duplicates
	debug["malformed_skipped"] = fused.Malformed

	cands := fused.Candidates
	if queryPlan.NeedsPersonalization {
		cands = o.personalizeStage(ctx, q.UserID, cands)
	}

	ranked := rank.Rank(cands, queryPlan.QueryType)
	ranked = rank.AdjustByRules(ranked, o.Rules)

	aiResponse, suggestions := o.respondStage(ctx, q.Query, queryPlan, ranked)

	filtered := guardrail.FilterResults(ranked, o.Rules)
	aiResponse = guardrail.CleanText(aiResponse, o.Rules)
	debug["guardrail_rejected"] = filtered.Rejected

	products := make([]types.Product, len(filtered.Kept))
	for i, c := range filtered.Kept {
		products[i] = c.Product
	}

	resp := types.SearchResponse{
		Query:          q.Query,
		Products:       products,
		AIResponse:     aiResponse,
		TotalResults:   len(products),
		ProcessingTime: time.Since(start).Seconds(),
		FiltersApplied: q.Filters,
		Suggestions:    suggestions,
		Timestamp:      time.Now().UTC(),
	}
	if resp.FiltersApplied == nil {
		resp.FiltersApplied = map[string]any{}
	}
	if o.Config.Debug {
		resp.DebugInfo = debug
	}
	return resp, nil
}

func (o *Orchestrator) planStage(ctx context.Context, query string) types.QueryPlan {
	if o.Planner == nil {
		return plan.HeuristicPlan(query)
	}
	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()
	return o.Planner.Plan(stageCtx, query)
}

// retrieveStage queries the configured sources in priority order (vector,
// structured, keyword fallback) and fuses their candidate lists. It reports
// how many sources were tried and how many failed so the caller can detect a
// total outage.
func (o *Orchestrator) retrieveStage(ctx context.Context, q Query) (fusion.Result, int, int) {
	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()

	topK := o.Config.Retrieval.TopK
	var lists [][]types.ScoredCandidate
	tried, failed := 0, 0

	primaryEmpty := true
	if o.Primary != nil {
		tried++
		cands, err := o.Primary.Search(stageCtx, q.Query, topK)
		if err != nil {
			failed++
			o.warnf("warning: %s source failed: %v\n", o.Primary.Name(), err)
		} else {
			primaryEmpty = len(cands) == 0
			lists = append(lists, cands)
		}
	}

	if src := o.structuredSource(q.Filters); src != nil {
		tried++
		cands, err := src.Search(stageCtx, q.Query, topK)
		if err != nil {
			failed++
			o.warnf("warning: %s source failed: %v\n", src.Name(), err)
		} else {
			lists = append(lists, cands)
		}
	}

	if o.Fallback != nil && primaryEmpty {
		tried++
		cands, err := o.Fallback.Search(stageCtx, q.Query, topK)
		if err != nil {
			failed++
			o.warnf("warning: %s source failed: %v\n", o.Fallback.Name(), err)
		} else {
			lists = append(lists, cands)
		}
	}

	return fusion.Fuse(lists...), tried, failed
}

// structuredSource builds a filter-driven catalog source when the query asks
// for one via the use_structured filter.
func (o *Orchestrator) structuredSource(filters map[string]any) retrieve.Source {
	if o.Catalog == nil {
		return nil
	}
	use, _ := filters["use_structured"].(bool)
	if !use {
		return nil
	}
	f := catalog.Filters{}
	if v, ok := filters["category"].(string); ok {
		f.Category = v
	}
	if v, ok := filters["brand"].(string); ok {
		f.Brand = v
	}
	f.MinPrice = floatFilter(filters, "min_price")
	f.MaxPrice = floatFilter(filters, "max_price")
	return &catalog.StructuredSource{Store: o.Catalog, Filters: f}
}

func (o *Orchestrator) personalizeStage(ctx context.Context, userID string, cands []types.ScoredCandidate) []types.ScoredCandidate {
	if o.Profiles == nil || userID == "" || len(cands) == 0 {
		return cands
	}
	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()

	profile, err := o.Profiles.Get(stageCtx, userID)
	if err != nil {
		// Pass through unpersonalized.
		o.warnf("warning: profile lookup for %s failed: %v\n", userID, err)
		return cands
	}
	return personalize.Apply(cands, profile)
}

func (o *Orchestrator) respondStage(ctx context.Context, query string, queryPlan types.QueryPlan, ranked []types.ScoredCandidate) (string, []string) {
	if o.Responder == nil {
		if len(ranked) == 0 {
			return respond.EmptyResultsMessage(query), nil
		}
		return respond.FallbackSummary(ranked), nil
	}
	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()

	text := o.Responder.Generate(stageCtx, query, queryPlan.QueryType, ranked)
	suggestions := o.Responder.Suggestions(stageCtx, query, ranked)
	return text, suggestions
}

func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := o.Config.StageTimeout
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (o *Orchestrator) warnf(format string, args ...any) {
	if o.Warn != nil {
		fmt.Fprintf(o.Warn, format, args...)
	}
}

func floatFilter(filters map[string]any, key string) float64 {
	switch v := filters[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// FallbackResponse is the fixed response returned when the whole pipeline
// fails. It is structurally valid so callers never see an error for internal
// outages.
func FallbackResponse(query string) types.SearchResponse {
	return types.SearchResponse{
		Query: query,
		Products: []types.Product{
			{
				ID:          "mock_1",
				Name:        "Mock Wireless Headphones",
				Description: "High-quality wireless headphones with noise cancellation",
				Price:       199.99,
				Category:    "Electronics",
				Attributes: map[string]any{
					"brand":    "MockBrand",
					"color":    "Black",
					"wireless": true,
				},
			},
		},
		AIResponse:     "I found a product that might interest you.",
		TotalResults:   1,
		ProcessingTime: 0,
		FiltersApplied: map[string]any{},
		Timestamp:      time.Now().UTC(),
	}
}
