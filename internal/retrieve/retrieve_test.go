// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieve

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/shopsearch/pkg/types"
)

func TestFromRecord(t *testing.T) {
	rec := RawRecord{
		"_id":         "prod_1",
		"name":        "Gaming Laptop Pro",
		"description": "Powerful laptop",
		"price":       1299, // int, not float64
		"category":    "Laptops",
		"brand":       "TechCorp",
		"$similarity": 0.92,
		"attributes":  map[string]any{"color": "black"},
	}

	cand, err := FromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if cand.Product.ID != "prod_1" {
		t.Errorf("ID = %q", cand.Product.ID)
	}
	if cand.Product.Price != 1299 {
		t.Errorf("Price = %f, want coerced int", cand.Product.Price)
	}
	if cand.RelevanceScore != 0.92 {
		t.Errorf("RelevanceScore = %f, want the $similarity value", cand.RelevanceScore)
	}
	// Top-level brand should be promoted into attributes.
	if got := cand.Product.AttrString("brand"); got != "TechCorp" {
		t.Errorf("brand attribute = %q", got)
	}
	if got := cand.Product.AttrString("color"); got != "black" {
		t.Errorf("color attribute = %q", got)
	}
}

func TestFromRecordDefaults(t *testing.T) {
	cand, err := FromRecord(RawRecord{"id": "p", "price": "not a number"})
	if err != nil {
		t.Fatal(err)
	}
	if cand.Product.Price != 0 {
		t.Errorf("Price = %f, want 0 for malformed value", cand.Product.Price)
	}
	if cand.RelevanceScore != defaultSimilarity {
		t.Errorf("RelevanceScore = %f, want default %f", cand.RelevanceScore, defaultSimilarity)
	}
}

func TestFromRecordMissingID(t *testing.T) {
	if _, err := FromRecord(RawRecord{"name": "nameless"}); err == nil {
		t.Fatal("expected error for record without id")
	}
}

func TestAdaptRecordsSkipsMalformed(t *testing.T) {
	var warnings []string
	got := AdaptRecords([]RawRecord{
		{"id": "a"},
		{"name": "no id"},
		{"id": "b"},
	}, func(format string, args ...any) {
		warnings = append(warnings, format)
	})

	if len(got.Candidates) != 2 || got.Skipped != 1 {
		t.Fatalf("Candidates = %d, Skipped = %d", len(got.Candidates), got.Skipped)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(warnings))
	}
}

func TestTopK(t *testing.T) {
	cands := []types.ScoredCandidate{
		{Product: types.Product{ID: "low"}, RelevanceScore: 0.2},
		{Product: types.Product{ID: "high"}, RelevanceScore: 0.9},
		{Product: types.Product{ID: "mid"}, RelevanceScore: 0.5},
	}

	got := TopK(cands, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Product.ID != "high" || got[1].Product.ID != "mid" {
		t.Errorf("order = %s, %s", got[0].Product.ID, got[1].Product.ID)
	}
	// Input order must be untouched.
	if cands[0].Product.ID != "low" {
		t.Error("TopK mutated its input")
	}
}

func TestKeywordScore(t *testing.T) {
	laptop := types.Product{
		Name:        "Gaming Laptop Pro",
		Description: "Powerful laptop",
		Category:    "Laptops",
		Attributes:  map[string]any{"brand": "TechCorp"},
	}

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		// Both terms hit name+desc (0.5), one hits category (0.3/2).
		{"two terms", "gaming laptop", 0.65},
		{"attribute match", "techcorp", 0.2},
		{"no match", "bicycle", 0},
		{"empty query", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordScore(tt.query, laptop)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("KeywordScore(%q) = %f, want %f", tt.query, got, tt.want)
			}
		})
	}
}

func TestScoreKeywordAveragesWithBase(t *testing.T) {
	cands := []types.ScoredCandidate{
		{
			Product:        types.Product{ID: "a", Name: "Gaming Laptop Pro", Description: "Powerful laptop", Category: "Laptops"},
			RelevanceScore: 0.5,
		},
	}
	got := ScoreKeyword("gaming laptop", cands)
	// (0.65 + 0.5) / 2
	if math.Abs(got[0].RelevanceScore-0.575) > 1e-9 {
		t.Errorf("RelevanceScore = %f, want 0.575", got[0].RelevanceScore)
	}
	if cands[0].RelevanceScore != 0.5 {
		t.Error("ScoreKeyword mutated its input")
	}
}

func TestVectorSourceSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Token"); got != "secret-token" {
			t.Errorf("Token header = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/product_search") {
			t.Errorf("path = %q, want the collection suffix", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "$vectorize") {
			t.Errorf("request body missing $vectorize: %s", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"documents": []map[string]any{
					{"_id": "p1", "name": "Wireless Headphones", "price": 199.99, "$similarity": 0.95},
					{"_id": "p2", "name": "Wired Headphones", "price": 49.99, "$similarity": 0.60},
				},
			},
		})
	}))
	defer ts.Close()

	src := &VectorSource{
		Client: ts.Client(),
		Config: types.RetrievalConfig{
			Endpoint:   ts.URL,
			Token:      "secret-token",
			Collection: "product_search",
			TopK:       10,
		},
	}

	cands, err := src.Search(context.Background(), "headphones", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates", len(cands))
	}
	if cands[0].Product.ID != "p1" || cands[0].RelevanceScore != 0.95 {
		t.Errorf("top candidate = %+v", cands[0])
	}
}

func TestVectorSourceBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "collection not found"}},
		})
	}))
	defer ts.Close()

	src := &VectorSource{
		Client: ts.Client(),
		Config: types.RetrievalConfig{Endpoint: ts.URL, Collection: "missing", TopK: 5},
	}
	if _, err := src.Search(context.Background(), "headphones", 0); err == nil {
		t.Fatal("expected error from backend errors array")
	}
}

func TestVectorSourceUnconfigured(t *testing.T) {
	src := &VectorSource{}
	if _, err := src.Search(context.Background(), "headphones", 5); err == nil {
		t.Fatal("expected error without an endpoint")
	}
}
