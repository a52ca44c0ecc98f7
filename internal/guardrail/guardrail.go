// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package guardrail validates candidates and generated text against content
// and compliance rules. It runs last in the pipeline, after ranking.
//
// See docs/ARCHITECTURE.md § Guardrail.
package guardrail

import (
	"regexp"
	"strings"

	"github.com/pdiddy/shopsearch/pkg/types"
)

var offensivePattern = regexp.MustCompile(`(?i)\b(hate|offensive|discriminatory|racist|sexist)\b`)

// sensitiveCategories are matched as substrings of lowercased text.
var sensitiveCategories = []string{"adult", "weapons", "drugs"}

// redactionMarker replaces offensive substrings in cleaned text.
const redactionMarker = "[removed]"

// Result holds the surviving candidates and a count of rejects. Individual
// reject reasons do not survive past this stage.
type Result struct {
	Kept     []types.ScoredCandidate
	Rejected int
}

// FilterResults drops candidates violating price bounds, required fields, or
// content rules. Accepted candidates pass through unchanged.
func FilterResults(cands []types.ScoredCandidate, rules types.BusinessRules) Result {
	res := Result{Kept: make([]types.ScoredCandidate, 0, len(cands))}
	for _, c := range cands {
		if validates(c.Product, rules) {
			res.Kept = append(res.Kept, c)
		} else {
			res.Rejected++
		}
	}
	return res
}

func validates(p types.Product, rules types.BusinessRules) bool {
	// Price bounds are inclusive.
	if p.Price < rules.MinPrice || p.Price > rules.MaxPrice {
		return false
	}
	for _, field := range rules.RequiredFields {
		if !hasField(p, field) {
			return false
		}
	}
	return !violatesContent(p.Description, rules)
}

func hasField(p types.Product, field string) bool {
	switch field {
	case "name":
		return p.Name != ""
	case "description":
		return p.Description != ""
	case "price":
		return p.Price != 0
	case "category":
		return p.Category != ""
	case "id":
		return p.ID != ""
	default:
		return p.AttrString(field) != ""
	}
}

// violatesContent reports whether text trips the offensive pattern, a
// sensitive category, or a banned keyword.
func violatesContent(text string, rules types.BusinessRules) bool {
	lower := strings.ToLower(text)
	if offensivePattern.MatchString(lower) {
		return true
	}
	for _, category := range sensitiveCategories {
		if strings.Contains(lower, category) {
			return true
		}
	}
	for _, keyword := range rules.BannedKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// CleanText sanitizes generated summary text: offensive substrings are
// redacted and whole sentences containing a sensitive category are removed.
// Cleaning is best-effort and never fails; text that trips no check is
// returned unmodified.
func CleanText(text string, rules types.BusinessRules) string {
	if !violatesContent(text, rules) {
		return text
	}

	cleaned := offensivePattern.ReplaceAllString(text, redactionMarker)

	for _, category := range sensitiveCategories {
		if !strings.Contains(strings.ToLower(cleaned), category) {
			continue
		}
		sentences := splitSentences(cleaned)
		kept := sentences[:0]
		for _, s := range sentences {
			if !strings.Contains(strings.ToLower(s), category) {
				kept = append(kept, s)
			}
		}
		cleaned = strings.Join(kept, "")
	}
	return cleaned
}

// splitSentences splits text after sentence-terminating punctuation, keeping
// the terminator with its sentence so the pieces rejoin cleanly.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}
