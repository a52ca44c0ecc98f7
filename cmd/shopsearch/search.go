// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shopsearch/internal/catalog"
	"github.com/pdiddy/shopsearch/internal/genai"
	"github.com/pdiddy/shopsearch/internal/pipeline"
	"github.com/pdiddy/shopsearch/internal/plan"
	"github.com/pdiddy/shopsearch/internal/profile"
	"github.com/pdiddy/shopsearch/internal/respond"
	"github.com/pdiddy/shopsearch/internal/retrieve"
	"github.com/pdiddy/shopsearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a product search query through the full pipeline",
	Long: `Search processes one query end to end: planning, retrieval from the
vector backend (with keyword fallback against the local catalog), fusion,
personalization, composite ranking, business rules, response generation, and
the guardrail pass.

With --mock, no network calls are made: planning and response generation use
deterministic canned output and retrieval reads the local catalog only.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("user", "", "user id for personalization")
	searchCmd.Flags().StringArray("filter", nil, "filter as key=value (repeatable); use_structured=true enables the structured catalog source")
	searchCmd.Flags().Int("top-k", 0, "candidates requested per source (default 10)")
	searchCmd.Flags().Bool("json", false, "output the full response as JSON")
	searchCmd.Flags().Bool("mock", false, "run offline with deterministic mock backends")
	searchCmd.Flags().Bool("debug", false, "include per-stage debug info in the response")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if mock, _ := cmd.Flags().GetBool("mock"); mock {
		cfg.MockResponses = true
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if topK, _ := cmd.Flags().GetInt("top-k"); topK > 0 {
		cfg.Retrieval.TopK = topK
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	// An empty catalog cannot serve the keyword fallback; seed the demo
	// products so mock mode works out of the box.
	if cfg.MockResponses {
		if n, _ := store.Count(cmd.Context()); n == 0 {
			if _, err := store.Seed(cmd.Context(), catalog.DemoProducts(), os.Stderr); err != nil {
				return err
			}
		}
	}

	profiles, err := profile.NewStore(cfg.Profile)
	if err != nil {
		return err
	}
	defer profiles.Close()

	orch := buildOrchestrator(cfg, store, profiles)

	userID, _ := cmd.Flags().GetString("user")
	filterArgs, _ := cmd.Flags().GetStringArray("filter")
	filters, err := parseFilters(filterArgs)
	if err != nil {
		return err
	}

	resp, err := orch.Process(cmd.Context(), pipeline.Query{
		Query:   strings.Join(args, " "),
		UserID:  userID,
		Filters: filters,
	})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResponse(resp)
	return nil
}

// buildOrchestrator wires the pipeline from configuration. Mock mode swaps
// the generation backend for canned output and drops the vector source.
func buildOrchestrator(cfg types.PipelineConfig, store *catalog.Store, profiles *profile.Store) *pipeline.Orchestrator {
	var generator genai.Generator
	if cfg.MockResponses {
		generator = genai.MockGenerator{}
	} else if cfg.AI.APIKey != "" {
		generator = &genai.OpenAIBackend{
			APIKey: cfg.AI.APIKey,
			Client: &http.Client{Timeout: httpTimeout(cfg)},
		}
	}

	var primary retrieve.Source
	if !cfg.MockResponses && cfg.Retrieval.Endpoint != "" {
		primary = &retrieve.VectorSource{
			Client: &http.Client{Timeout: httpTimeout(cfg)},
			Config: cfg.Retrieval,
		}
	}

	orch := &pipeline.Orchestrator{
		Primary:  primary,
		Fallback: &catalog.KeywordSource{Store: store},
		Catalog:  store,
		Profiles: profiles,
		Responder: &respond.Generator{
			Backend:     generator,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxRetries:  cfg.AI.MaxRetries,
		},
		Rules:  cfg.Rules,
		Config: cfg,
		Warn:   os.Stderr,
	}
	if generator != nil {
		orch.Planner = &plan.Planner{
			Generator:  generator,
			Model:      cfg.AI.Model,
			MaxRetries: cfg.AI.MaxRetries,
		}
	}
	return orch
}

// parseFilters converts key=value pairs into a filter map, coercing booleans
// and numbers so the pipeline sees typed values.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		switch {
		case value == "true" || value == "false":
			filters[key] = value == "true"
		default:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				filters[key] = f
			} else {
				filters[key] = value
			}
		}
	}
	return filters, nil
}

func printResponse(resp types.SearchResponse) {
	fmt.Println(resp.AIResponse)
	fmt.Println()

	for i, p := range resp.Products {
		fmt.Printf("%2d. %s  $%.2f  [%s]\n", i+1, p.Name, p.Price, p.Category)
	}
	if len(resp.Suggestions) > 0 {
		fmt.Println("\nYou might also try:")
		for _, s := range resp.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	fmt.Printf("\n%d results in %.2fs\n", resp.TotalResults, resp.ProcessingTime)

	if resp.DebugInfo != nil {
		data, err := json.MarshalIndent(resp.DebugInfo, "", "  ")
		if err == nil {
			fmt.Fprintf(os.Stderr, "debug: %s\n", data)
		}
	}
}
