package matcher

import (
	"strings"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

// FallbackReasoning replaces the provider's reasoning whenever its match is rejected.
const FallbackReasoning = "Based on your description, we think professional services might be a good fit."

// repaired is a classification whose matched slug is known to be active.
type repaired struct {
	slug       string
	confidence model.Confidence
	reasoning  string
	// fellBack is set when the provider's slug was replaced.
	fellBack bool
}

// repairClassification checks the provider's match against the active set and
// substitutes the fallback vertical when it is not a member.
func repairClassification(c classification, active map[string]struct{}, fallbackSlug string, maxReasoning int) repaired {
	slug := strings.TrimSpace(c.MatchedIndustry)
	if _, ok := active[slug]; !ok {
		return repaired{
			slug:       fallbackSlug,
			confidence: model.ConfidenceLow,
			reasoning:  FallbackReasoning,
			fellBack:   true,
		}
	}

	confidence, _ := model.ParseConfidence(c.Confidence)

	return repaired{
		slug:       slug,
		confidence: confidence,
		reasoning:  truncateRunes(strings.TrimSpace(c.Reasoning), maxReasoning),
	}
}

// filterAlternates keeps active slugs other than matched, without duplicates,
// in the provider's order, up to limit.
func filterAlternates(slugs []string, active map[string]struct{}, matched string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		if len(out) >= limit {
			break
		}
		s = strings.TrimSpace(s)
		if s == matched {
			continue
		}
		if _, ok := active[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// orderSummaries arranges summaries in the order of slugs, dropping any slug the
// catalog did not return.
func orderSummaries(slugs []string, summaries []model.IndustrySummary) []model.IndustrySummary {
	bySlug := make(map[string]model.IndustrySummary, len(summaries))
	for _, s := range summaries {
		bySlug[s.Slug] = s
	}

	out := make([]model.IndustrySummary, 0, len(slugs))
	for _, slug := range slugs {
		if s, ok := bySlug[slug]; ok {
			out = append(out, s)
		}
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
