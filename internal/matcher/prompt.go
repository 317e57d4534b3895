package matcher

import (
	"fmt"
	"strings"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

// buildPrompt renders the classification instruction for one description.
func buildPrompt(description string, candidates []model.Industry, fallbackSlug string, maxAlternates int) string {
	var list strings.Builder
	for _, ind := range candidates {
		fmt.Fprintf(&list, "%s: %s - %s\n", ind.Slug, ind.Name, ind.Tagline)
	}

	var sb strings.Builder
	sb.WriteString("You are an industry classifier for an AI consulting business that helps regional small and medium businesses adopt AI.\n\n")
	sb.WriteString("Classify the following business description into exactly one of the industries listed below.\n\n")
	sb.WriteString("Business description:\n")
	sb.WriteString(description)
	sb.WriteString("\n\nAvailable industries (slug: name - tagline):\n")
	sb.WriteString(list.String())

	sb.WriteString("\nRules:\n")
	sb.WriteString("1. Always return a match, even if your confidence is low.\n")
	sb.WriteString("2. If the business spans several industries, choose the one that matches its primary source of revenue.\n")
	fmt.Fprintf(&sb, "3. Service businesses with no obvious industry should be matched to %q.\n", fallbackSlug)
	fmt.Fprintf(&sb, "4. If the description cannot be resolved at all, use %q.\n", fallbackSlug)

	sb.WriteString("\nRespond with a single JSON object containing exactly these fields:\n")
	sb.WriteString(`{"matchedIndustry": "<slug>", "confidence": "high" | "medium" | "low", "reasoning": "<one sentence>", "alternateIndustries": ["<slug>", ...]}`)
	fmt.Fprintf(&sb, "\n\nalternateIndustries may contain between 0 and %d slugs from the list above.\n", maxAlternates)
	sb.WriteString("Do not wrap the JSON in markdown code fences and do not add any explanation before or after it.")

	return sb.String()
}
