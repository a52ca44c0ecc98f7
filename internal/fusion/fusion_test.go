// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fusion

import (
	"testing"

	"github.com/pdiddy/shopsearch/pkg/types"
)

func cand(id string, relevance float64) types.ScoredCandidate {
	return types.ScoredCandidate{
		Product:        types.Product{ID: id, Name: "Product " + id},
		RelevanceScore: relevance,
	}
}

func TestFuseKeepsHighestScore(t *testing.T) {
	vector := []types.ScoredCandidate{cand("a", 0.9), cand("b", 0.4)}
	structured := []types.ScoredCandidate{cand("b", 0.7), cand("c", 0.5)}

	res := Fuse(vector, structured)

	if len(res.Candidates) != 3 {
		t.Fatalf("len(Candidates) = %d, want 3", len(res.Candidates))
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}

	scores := map[string]float64{}
	for _, c := range res.Candidates {
		scores[c.Product.ID] = c.RelevanceScore
	}
	if scores["b"] != 0.7 {
		t.Errorf("kept score for b = %f, want 0.7 (higher of the two)", scores["b"])
	}
}

func TestFuseNoDuplicateIDs(t *testing.T) {
	lists := [][]types.ScoredCandidate{
		{cand("x", 0.1), cand("y", 0.2), cand("x", 0.3)},
		{cand("y", 0.9), cand("z", 0.5), cand("x", 0.05)},
	}

	res := Fuse(lists...)

	seen := map[string]bool{}
	for _, c := range res.Candidates {
		if seen[c.Product.ID] {
			t.Fatalf("duplicate product id %q in fused output", c.Product.ID)
		}
		seen[c.Product.ID] = true
	}
	if len(res.Candidates) != 3 {
		t.Errorf("len(Candidates) = %d, want 3", len(res.Candidates))
	}

	// For each id the kept entry must carry the maximum input score.
	want := map[string]float64{"x": 0.3, "y": 0.9, "z": 0.5}
	for _, c := range res.Candidates {
		if c.RelevanceScore != want[c.Product.ID] {
			t.Errorf("score for %s = %f, want %f", c.Product.ID, c.RelevanceScore, want[c.Product.ID])
		}
	}
}

func TestFuseExactTieEarlierSourceWins(t *testing.T) {
	first := cand("a", 0.5)
	first.Product.Name = "from vector"
	second := cand("a", 0.5)
	second.Product.Name = "from structured"

	res := Fuse([]types.ScoredCandidate{first}, []types.ScoredCandidate{second})

	if len(res.Candidates) != 1 {
		t.Fatalf("len(Candidates) = %d, want 1", len(res.Candidates))
	}
	if res.Candidates[0].Product.Name != "from vector" {
		t.Errorf("tie kept %q, want the earlier source's candidate", res.Candidates[0].Product.Name)
	}
}

func TestFuseDropsEmptyIDs(t *testing.T) {
	res := Fuse([]types.ScoredCandidate{cand("", 0.9), cand("a", 0.5)})

	if res.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", res.Malformed)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Product.ID != "a" {
		t.Errorf("Candidates = %+v, want only product a", res.Candidates)
	}
}

func TestFuseEmptyInput(t *testing.T) {
	res := Fuse()
	if len(res.Candidates) != 0 || res.Duplicates != 0 {
		t.Errorf("Fuse() = %+v, want empty result", res)
	}

	res = Fuse(nil, []types.ScoredCandidate{})
	if len(res.Candidates) != 0 {
		t.Errorf("Fuse(nil, empty) = %+v, want empty result", res)
	}
}
