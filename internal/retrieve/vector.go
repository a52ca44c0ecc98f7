// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/shopsearch/internal/httputil"
	"github.com/pdiddy/shopsearch/pkg/types"
)

// VectorSource queries a Document-API style vector backend. The backend
// embeds the query text server-side and returns records annotated with a
// $similarity score in [0,1], which passes through as the relevance score.
type VectorSource struct {
	Client *http.Client
	Config types.RetrievalConfig
}

// Name returns the source identifier.
func (s *VectorSource) Name() string { return "vector_store" }

// findRequest is the search request body sent to the backend.
type findRequest struct {
	Find findClause `json:"find"`
}

type findClause struct {
	Sort    map[string]string `json:"sort"`
	Options findOptions       `json:"options"`
}

type findOptions struct {
	Limit             int  `json:"limit"`
	IncludeSimilarity bool `json:"includeSimilarity"`
}

// findResponse is the backend's response envelope.
type findResponse struct {
	Data struct {
		Documents []RawRecord `json:"documents"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Search sends a similarity search to the backend and adapts the returned
// records into scored candidates, sorted by relevance and truncated to topK.
// Malformed records are skipped, never fatal for the batch.
func (s *VectorSource) Search(ctx context.Context, query string, topK int) ([]types.ScoredCandidate, error) {
	if s.Config.Endpoint == "" {
		return nil, fmt.Errorf("vector backend endpoint not configured")
	}
	if topK <= 0 {
		topK = s.Config.TopK
	}

	body := findRequest{
		Find: findClause{
			Sort:    map[string]string{"$vectorize": query},
			Options: findOptions{Limit: topK, IncludeSimilarity: true},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.Config.Endpoint, s.Config.Collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.Config.UserAgent)
	if s.Config.Token != "" {
		req.Header.Set("Token", s.Config.Token)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: s.Config.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("vector backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vector backend returned HTTP %d", resp.StatusCode)
	}

	var fr findResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("parsing vector backend response: %w", err)
	}
	if len(fr.Errors) > 0 {
		return nil, fmt.Errorf("vector backend error: %s", fr.Errors[0].Message)
	}

	adapted := AdaptRecords(fr.Data.Documents, nil)
	return TopK(adapted.Candidates, topK), nil
}

// Ping verifies the backend is reachable with an empty search.
func (s *VectorSource) Ping(ctx context.Context) error {
	_, err := s.Search(ctx, "ping", 1)
	return err
}
