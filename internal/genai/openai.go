// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/shopsearch/internal/httputil"
)

// openAIAPIURL is the chat completions endpoint. Package-level var for test
// substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls the OpenAI chat completions API.
type OpenAIBackend struct {
	APIKey string
	Client *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Generate sends the prompt as a single user message and returns the first
// choice. Transient HTTP failures are retried by the shared retry transport.
func (b *OpenAIBackend) Generate(ctx context.Context, genReq Request) (Response, error) {
	reqBody := chatRequest{
		Model:       genReq.Model,
		MaxTokens:   genReq.MaxTokens,
		Temperature: genReq.Temperature,
		Messages: []chatMessage{
			{Role: "user", Content: genReq.Prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Response{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Response{}, fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Response{}, fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return Response{}, fmt.Errorf("OpenAI API returned no choices")
	}

	choice := cResp.Choices[0]
	return Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}, nil
}
