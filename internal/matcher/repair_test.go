package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

func activeSet(slugs ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		m[s] = struct{}{}
	}
	return m
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   classification
	}{
		{
			name:   "complete object",
			text:   `{"matchedIndustry":"retail","confidence":"high","reasoning":"Shop.","alternateIndustries":["hospitality"]}`,
			wantOK: true,
			want:   classification{MatchedIndustry: "retail", Confidence: "high", Reasoning: "Shop.", AlternateIndustries: []string{"hospitality"}},
		},
		{
			name:   "surrounding whitespace",
			text:   "\n  {\"matchedIndustry\":\"retail\"}  \n",
			wantOK: true,
			want:   classification{MatchedIndustry: "retail"},
		},
		{name: "prose prefix", text: `Here you go: {"matchedIndustry":"retail"}`},
		{name: "markdown fence", text: "```json\n{\"matchedIndustry\":\"retail\"}\n```"},
		{name: "two objects", text: `{"matchedIndustry":"retail"}{"matchedIndustry":"mining"}`},
		{name: "array", text: `["retail"]`},
		{
			name:   "wrong field types read as absent",
			text:   `{"matchedIndustry":42,"confidence":0.2,"reasoning":["x"],"alternateIndustries":"retail"}`,
			wantOK: true,
			want:   classification{},
		},
		{
			name:   "non-string alternates dropped",
			text:   `{"matchedIndustry":"retail","alternateIndustries":[1,"hospitality",null,{"slug":"mining"}]}`,
			wantOK: true,
			want:   classification{MatchedIndustry: "retail", AlternateIndustries: []string{"hospitality"}},
		},
		{name: "null", text: "null"},
		{name: "string", text: `"retail"`},
		{name: "number", text: "42"},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			switch r := parseClassification(tt.text).(type) {
			case parsedOK:
				assert.True(t, tt.wantOK, "expected invalid parse")
				if diff := cmp.Diff(tt.want, r.fields); diff != "" {
					t.Errorf("fields mismatch (-want +got):\n%s", diff)
				}
			case parsedInvalid:
				assert.False(t, tt.wantOK, "unexpected parse error: %v", r.err)
				assert.Error(t, r.err)
			}
		})
	}
}

func TestRepairClassification(t *testing.T) {
	active := activeSet("construction", "professional-services")

	got := repairClassification(classification{
		MatchedIndustry:     "plumbing",
		Confidence:          "high",
		Reasoning:           "Provider reasoning that must not leak.",
		AlternateIndustries: []string{"construction"},
	}, active, "professional-services", 100)
	assert.Equal(t, repaired{
		slug:       "professional-services",
		confidence: model.ConfidenceLow,
		reasoning:  FallbackReasoning,
		fellBack:   true,
	}, got)

	got = repairClassification(classification{
		MatchedIndustry: " construction ",
		Confidence:      "Medium",
		Reasoning:       " Builds sheds. ",
	}, active, "professional-services", 100)
	assert.Equal(t, repaired{
		slug:       "construction",
		confidence: model.ConfidenceMedium,
		reasoning:  "Builds sheds.",
	}, got)
}

func TestFilterAlternates(t *testing.T) {
	active := activeSet("a", "b", "c", "d", "e")

	tests := []struct {
		name    string
		in      []string
		matched string
		want    []string
	}{
		{name: "nil", in: nil, matched: "a", want: []string{}},
		{name: "drops matched", in: []string{"a", "b"}, matched: "a", want: []string{"b"}},
		{name: "drops unknown", in: []string{"x", "c", "y"}, matched: "a", want: []string{"c"}},
		{name: "deduplicates", in: []string{"b", "b", "c", "b"}, matched: "a", want: []string{"b", "c"}},
		{name: "caps after filtering", in: []string{"a", "x", "e", "d", "c", "b"}, matched: "a", want: []string{"e", "d", "c"}},
		{name: "self and unknown only", in: []string{"a", "a", "unknown-slug"}, matched: "a", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterAlternates(tt.in, active, tt.matched, 3)
			assert.Equal(t, tt.want, got)

			// Filtering its own output changes nothing.
			assert.Equal(t, got, filterAlternates(got, active, tt.matched, 3))
		})
	}
}

func TestOrderSummaries(t *testing.T) {
	got := orderSummaries([]string{"c", "a", "b"}, []model.IndustrySummary{
		{Slug: "a", Name: "A"},
		{Slug: "c", Name: "C"},
	})
	assert.Equal(t, []model.IndustrySummary{{Slug: "c", Name: "C"}, {Slug: "a", Name: "A"}}, got)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
	assert.Equal(t, "unbounded", truncateRunes("unbounded", 0))
}
