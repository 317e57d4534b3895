package model

import "strings"

// Confidence is the classifier's self-reported certainty for a match.
type Confidence string

// Confidence levels accepted from the classification provider.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence normalizes s to a known level.
// The second return value is false when s is not one of the three levels.
func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh, true
	case ConfidenceMedium:
		return ConfidenceMedium, true
	case ConfidenceLow:
		return ConfidenceLow, true
	default:
		return ConfidenceLow, false
	}
}

// MatchResult is the validated outcome of one industry match.
type MatchResult struct {
	Confidence          Confidence        `json:"confidence"`
	Reasoning           string            `json:"reasoning"`
	AlternateIndustries []IndustrySummary `json:"alternateIndustries"`
	MatchedIndustry     Industry          `json:"matchedIndustry"`
}
