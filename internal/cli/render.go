package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

func confidenceStyle(c model.Confidence) lipgloss.Style {
	switch c {
	case model.ConfidenceHigh:
		return SuccessStyle
	case model.ConfidenceMedium:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// RenderMatch formats a match result as a box.
func RenderMatch(result *model.MatchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", BoldStyle.Render(result.MatchedIndustry.Name), SubtleStyle.Render("("+result.MatchedIndustry.Slug+")"))
	if result.MatchedIndustry.Tagline != "" {
		sb.WriteString(SubtleStyle.Render(result.MatchedIndustry.Tagline) + "\n")
	}
	fmt.Fprintf(&sb, "\nConfidence: %s\n", confidenceStyle(result.Confidence).Render(string(result.Confidence)))
	fmt.Fprintf(&sb, "Reasoning:  %s", result.Reasoning)

	if len(result.AlternateIndustries) > 0 {
		sb.WriteString("\n\nAlternates:")
		for _, alt := range result.AlternateIndustries {
			fmt.Fprintf(&sb, "\n  • %s %s", alt.Name, SubtleStyle.Render("("+alt.Slug+")"))
		}
	}

	return RenderBox("Industry match", sb.String())
}

// WriteIndustries writes a table of industries to w.
func WriteIndustries(w io.Writer, industries []model.Industry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Slug"),
		HeaderStyle.Render("Name"),
		HeaderStyle.Render("Status"),
		HeaderStyle.Render("Tagline"))

	for _, ind := range industries {
		status := SuccessStyle.Render("active")
		if !ind.IsActive {
			status = SubtleStyle.Render("inactive")
		}
		tagline := ind.Tagline
		if tagline == "" {
			tagline = SubtleStyle.Render("(no tagline)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ind.Slug, ind.Name, status, tagline)
	}

	return tw.Flush()
}

// Tally counts batch match outcomes per industry.
type Tally struct {
	Matches    map[string]int
	Confidence map[model.Confidence]int
	Failures   map[string]int
	Fallbacks  int
	Total      int
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{
		Matches:    make(map[string]int),
		Confidence: make(map[model.Confidence]int),
		Failures:   make(map[string]int),
	}
}

// Add records one outcome. Exactly one of result and failure is set.
func (t *Tally) Add(result *model.MatchResult, failure string, fallbackSlug string) {
	t.Total++
	if result == nil {
		t.Failures[failure]++
		return
	}
	t.Matches[result.MatchedIndustry.Slug]++
	t.Confidence[result.Confidence]++
	if result.MatchedIndustry.Slug == fallbackSlug && result.Confidence == model.ConfidenceLow {
		t.Fallbacks++
	}
}

// Write renders the tally to w, most frequent industries first.
func (t *Tally) Write(w io.Writer) error {
	type row struct {
		key   string
		count int
	}
	sorted := func(m map[string]int) []row {
		rows := make([]row, 0, len(m))
		for k, v := range m {
			rows = append(rows, row{k, v})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].count != rows[j].count {
				return rows[i].count > rows[j].count
			}
			return rows[i].key < rows[j].key
		})
		return rows
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", HeaderStyle.Render("Industry"), HeaderStyle.Render("Matches"))
	for _, r := range sorted(t.Matches) {
		fmt.Fprintf(tw, "%s\t%d\n", r.key, r.count)
	}
	for _, r := range sorted(t.Failures) {
		fmt.Fprintf(tw, "%s\t%d\n", ErrorStyle.Render("failed: "+r.key), r.count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	failed := 0
	for _, n := range t.Failures {
		failed += n
	}

	_, err := fmt.Fprintf(w, "\n%d descriptions: %d high, %d medium, %d low confidence, %d fallbacks, %d failed\n",
		t.Total,
		t.Confidence[model.ConfidenceHigh],
		t.Confidence[model.ConfidenceMedium],
		t.Confidence[model.ConfidenceLow],
		t.Fallbacks,
		failed)
	return err
}
