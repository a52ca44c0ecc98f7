// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"context"
	"strings"
)

// MockGenerator returns deterministic canned text without network access.
// Mock mode uses it in place of the OpenAI backend so the full pipeline runs
// offline.
type MockGenerator struct{}

// Generate inspects the prompt and returns a fixed plan or summary. Plan
// prompts are recognized by their JSON instruction marker.
func (MockGenerator) Generate(_ context.Context, req Request) (Response, error) {
	if strings.Contains(req.Prompt, `"query_type"`) {
		return Response{
			Content:      `{"query_type": "product_search", "needs_personalization": false, "ranking_criteria": ["relevance"], "response_type": "list"}`,
			FinishReason: "stop",
		}, nil
	}
	return Response{
		Content:      "Here are the best matches I found for your search. Would you like more details about any of these products?",
		FinishReason: "stop",
	}, nil
}
