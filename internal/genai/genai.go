// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai abstracts the text-generation backend used by the planning
// and response stages.
//
// See docs/ARCHITECTURE.md § Text Generation.
package genai

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Generator produces text from a prompt. Each implementation (OpenAI API,
// deterministic mock) satisfies this per the Strategy pattern.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is one text-generation call.
type Request struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Response is the generated text plus the backend's stop reason.
type Response struct {
	Content      string
	FinishReason string
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// GenerateWithRetry calls the generator with exponential backoff. Exhausted
// retries surface as the last error; callers treat that like any hard stage
// failure.
func GenerateWithRetry(ctx context.Context, g Generator, req Request, maxRetries int) (Response, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := g.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return Response{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
