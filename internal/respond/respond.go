// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package respond turns ranked results into conversational text and search
// suggestions.
//
// See docs/ARCHITECTURE.md § Response Generation.
package respond

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/shopsearch/internal/genai"
	"github.com/pdiddy/shopsearch/pkg/types"
)

const (
	responseMaxTokens   = 1000
	suggestionMaxTokens = 500
	maxSuggestions      = 5
	// Only the top results feed the generation prompt.
	promptResultLimit = 3
)

// Generator produces the natural-language summary and suggestions.
type Generator struct {
	Backend     genai.Generator
	Model       string
	Temperature float64
	MaxRetries  int
}

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are a helpful shopping assistant. The user searched for "{{.Query}}" ({{.QueryType}} query) and these products matched:

{{.Results}}
Generate a natural, helpful response that:
1. Addresses the user's query directly
2. Highlights the most relevant information
3. Includes personalized explanations when available
4. Maintains a conversational tone
5. Provides clear next steps or suggestions

Response:
`))

var suggestionPromptTmpl = template.Must(template.New("suggestions").Parse(`Based on the search query "{{.Query}}" and the following product context:
- Products: {{.Products}}
- Categories: {{.Categories}}

Generate 3-5 relevant alternative search suggestions that would help the user find similar or related products.
Each suggestion should be on a new line without bullets or numbers.
`))

// EmptyResultsMessage is the exact text returned when a search matches
// nothing.
func EmptyResultsMessage(query string) string {
	return fmt.Sprintf("I couldn't find any products matching your search for '%s'. Try broadening your search terms or using different keywords.", query)
}

// Generate produces the summary text for a result list. Empty result lists
// short-circuit to the fixed no-match message. Backend failures degrade to a
// deterministic local summary, never an error.
func (g *Generator) Generate(ctx context.Context, query string, queryType types.QueryType, cands []types.ScoredCandidate) string {
	if len(cands) == 0 {
		return EmptyResultsMessage(query)
	}
	if g.Backend == nil {
		return FallbackSummary(cands)
	}

	prompt, err := renderSummaryPrompt(query, queryType, cands)
	if err != nil {
		return FallbackSummary(cands)
	}

	resp, err := genai.GenerateWithRetry(ctx, g.Backend, genai.Request{
		Prompt:      prompt,
		Model:       g.Model,
		MaxTokens:   responseMaxTokens,
		Temperature: g.Temperature,
	}, g.MaxRetries)
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		return FallbackSummary(cands)
	}
	return resp.Content
}

// Suggestions asks the backend for 3-5 related queries. Best-effort: any
// failure returns an empty list.
func (g *Generator) Suggestions(ctx context.Context, query string, cands []types.ScoredCandidate) []string {
	if g.Backend == nil || len(cands) == 0 {
		return nil
	}

	prompt, err := renderSuggestionPrompt(query, cands)
	if err != nil {
		return nil
	}

	resp, err := genai.GenerateWithRetry(ctx, g.Backend, genai.Request{
		Prompt:      prompt,
		Model:       g.Model,
		MaxTokens:   suggestionMaxTokens,
		Temperature: g.Temperature,
	}, g.MaxRetries)
	if err != nil {
		return nil
	}

	var suggestions []string
	for _, line := range strings.Split(resp.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

// FallbackSummary builds a deterministic plain-text summary of the top
// results, used when no generation backend is available.
func FallbackSummary(cands []types.ScoredCandidate) string {
	if len(cands) == 0 {
		return "I couldn't find any products matching your search criteria. Please try a different search or adjust your filters."
	}

	var b strings.Builder
	b.WriteString("Here are some products that match your search:\n\n")

	top := cands
	if len(top) > promptResultLimit {
		top = top[:promptResultLimit]
	}
	for _, c := range top {
		p := c.Product
		fmt.Fprintf(&b, "• %s", p.Name)
		if p.Description != "" {
			fmt.Fprintf(&b, " - %s", p.Description)
		}
		b.WriteString("\n")
		if p.Price > 0 {
			fmt.Fprintf(&b, "  Price: $%.2f\n", p.Price)
		}
		for _, score := range []string{"camera_score", "performance_score", "battery_score"} {
			if v := p.AttrFloat(score, -1); v >= 0 {
				fmt.Fprintf(&b, "  %s: %.0f/100\n", scoreLabel(score), v)
			}
		}
		if rating := p.AttrFloat("rating", -1); rating >= 0 {
			fmt.Fprintf(&b, "  Rating: %.1f stars\n", rating)
		}
		if c.Explanation != "" {
			fmt.Fprintf(&b, "  %s\n", c.Explanation)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nWould you like more details about any of these products?")
	return b.String()
}

func scoreLabel(key string) string {
	switch key {
	case "camera_score":
		return "Camera Score"
	case "performance_score":
		return "Performance Score"
	case "battery_score":
		return "Battery Score"
	default:
		return key
	}
}

func renderSummaryPrompt(query string, queryType types.QueryType, cands []types.ScoredCandidate) (string, error) {
	var results strings.Builder
	top := cands
	if len(top) > promptResultLimit {
		top = top[:promptResultLimit]
	}
	for _, c := range top {
		p := c.Product
		fmt.Fprintf(&results, "- %s (%s, $%.2f): %s\n", p.Name, p.Category, p.Price, p.Description)
		if c.Explanation != "" {
			fmt.Fprintf(&results, "  %s\n", c.Explanation)
		}
	}

	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct {
		Query     string
		QueryType types.QueryType
		Results   string
	}{query, queryType, results.String()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderSuggestionPrompt(query string, cands []types.ScoredCandidate) (string, error) {
	var names []string
	seen := map[string]bool{}
	var categories []string
	for i, c := range cands {
		if i < maxSuggestions {
			names = append(names, c.Product.Name)
		}
		if cat := c.Product.Category; cat != "" && !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}

	var buf bytes.Buffer
	err := suggestionPromptTmpl.Execute(&buf, struct {
		Query      string
		Products   string
		Categories string
	}{query, strings.Join(names, ", "), strings.Join(categories, ", ")})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
