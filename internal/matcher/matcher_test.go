package matcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/llm"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCatalog is an in-memory catalog that counts calls.
type fakeCatalog struct {
	listErr   error
	getErr    error
	batchErr  error
	byslug    map[string]model.Industry
	order     []string
	listCalls int
	getCalls  int
	batchArgs [][]string
	mu        sync.Mutex
}

func newFakeCatalog(industries ...model.Industry) *fakeCatalog {
	c := &fakeCatalog{byslug: make(map[string]model.Industry)}
	for _, ind := range industries {
		c.byslug[ind.Slug] = ind
		c.order = append(c.order, ind.Slug)
	}
	return c
}

func (c *fakeCatalog) ListActiveIndustries(_ context.Context) ([]model.Industry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []model.Industry
	for _, slug := range c.order {
		if ind := c.byslug[slug]; ind.IsActive {
			out = append(out, ind)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetIndustryBySlug(_ context.Context, slug string) (*model.Industry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	ind, ok := c.byslug[slug]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &ind, nil
}

func (c *fakeCatalog) GetIndustriesBySlugs(_ context.Context, slugs []string) ([]model.IndustrySummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchArgs = append(c.batchArgs, slugs)
	if c.batchErr != nil {
		return nil, c.batchErr
	}
	var out []model.IndustrySummary
	for _, slug := range slugs {
		if ind, ok := c.byslug[slug]; ok && ind.IsActive {
			out = append(out, ind.Summary())
		}
	}
	// Catalog order is unspecified; reverse to prove the matcher re-orders.
	sort.Slice(out, func(i, j int) bool { return out[i].Slug > out[j].Slug })
	return out, nil
}

// fakeProvider replies with a scripted response and records prompts.
type fakeProvider struct {
	err     error
	reply   string
	prompts []string
	delay   time.Duration
}

func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return p.reply, p.err
}

func standardCatalog() *fakeCatalog {
	return newFakeCatalog(
		model.Industry{ID: "1", Slug: "construction", Name: "Construction", Tagline: "Builders and trades", IconName: "hammer", IsActive: true},
		model.Industry{ID: "2", Slug: "real-estate", Name: "Real Estate", Tagline: "Agents and property managers", IconName: "home", IsActive: true},
		model.Industry{ID: "3", Slug: "professional-services", Name: "Professional Services", Tagline: "Advisors and consultants", IconName: "briefcase", IsActive: true},
		model.Industry{ID: "4", Slug: "mining", Name: "Mining", Tagline: "Resources", IconName: "pickaxe", IsActive: false},
		model.Industry{ID: "5", Slug: "hospitality", Name: "Hospitality", Tagline: "Cafes and hotels", IconName: "coffee", IsActive: true},
		model.Industry{ID: "6", Slug: "retail", Name: "Retail", Tagline: "Shops", IconName: "store", IsActive: true},
	)
}

func summaries(slugs ...string) []model.IndustrySummary {
	cat := standardCatalog()
	out := make([]model.IndustrySummary, 0, len(slugs))
	for _, s := range slugs {
		out = append(out, cat.byslug[s].Summary())
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantSlug       string
		wantConfidence model.Confidence
		wantReasoning  string
		wantAlternates []model.IndustrySummary
	}{
		{
			name:           "valid match with alternate",
			reply:          `{"matchedIndustry":"construction","confidence":"high","reasoning":"Builds houses.","alternateIndustries":["real-estate"]}`,
			wantSlug:       "construction",
			wantConfidence: model.ConfidenceHigh,
			wantReasoning:  "Builds houses.",
			wantAlternates: summaries("real-estate"),
		},
		{
			name:           "unknown slug falls back",
			reply:          `{"matchedIndustry":"plumbing","confidence":"high","reasoning":"Fixes pipes.","alternateIndustries":["construction"]}`,
			wantSlug:       "professional-services",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  FallbackReasoning,
			wantAlternates: summaries("construction"),
		},
		{
			name:           "inactive slug falls back",
			reply:          `{"matchedIndustry":"mining","confidence":"medium","reasoning":"Digs.","alternateIndustries":[]}`,
			wantSlug:       "professional-services",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  FallbackReasoning,
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "missing match falls back",
			reply:          `{"confidence":"high","reasoning":"Unsure."}`,
			wantSlug:       "professional-services",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  FallbackReasoning,
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "self match and unknown alternates dropped",
			reply:          `{"matchedIndustry":"construction","confidence":"medium","reasoning":"Trades.","alternateIndustries":["construction","construction","unknown-slug"]}`,
			wantSlug:       "construction",
			wantConfidence: model.ConfidenceMedium,
			wantReasoning:  "Trades.",
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "alternates filtered and capped in provider order",
			reply:          `{"matchedIndustry":"retail","confidence":"High","reasoning":"Sells goods.","alternateIndustries":["mining","real-estate","retail","hospitality","real-estate","construction","professional-services"]}`,
			wantSlug:       "retail",
			wantConfidence: model.ConfidenceHigh,
			wantReasoning:  "Sells goods.",
			wantAlternates: summaries("real-estate", "hospitality", "construction"),
		},
		{
			name:           "unknown confidence normalized",
			reply:          `{"matchedIndustry":"hospitality","confidence":"certain","reasoning":"Runs a cafe."}`,
			wantSlug:       "hospitality",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  "Runs a cafe.",
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "unknown slug with numeric confidence falls back",
			reply:          `{"matchedIndustry":"plumbing","confidence":0.2,"reasoning":"Pipes.","alternateIndustries":[]}`,
			wantSlug:       "professional-services",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  FallbackReasoning,
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "non-string match falls back",
			reply:          `{"matchedIndustry":42,"confidence":"high","reasoning":"Numbers."}`,
			wantSlug:       "professional-services",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  FallbackReasoning,
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "unknown slug with non-string reasoning falls back",
			reply:          `{"matchedIndustry":"plumbing","confidence":"high","reasoning":["x"]}`,
			wantSlug:       "professional-services",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  FallbackReasoning,
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "numeric confidence reads as low",
			reply:          `{"matchedIndustry":"construction","confidence":0.9,"reasoning":"Builds.","alternateIndustries":["real-estate"]}`,
			wantSlug:       "construction",
			wantConfidence: model.ConfidenceLow,
			wantReasoning:  "Builds.",
			wantAlternates: summaries("real-estate"),
		},
		{
			name:           "non-string reasoning reads as empty",
			reply:          `{"matchedIndustry":"construction","confidence":"high","reasoning":{"text":"Builds."}}`,
			wantSlug:       "construction",
			wantConfidence: model.ConfidenceHigh,
			wantReasoning:  "",
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "non-array alternates ignored",
			reply:          `{"matchedIndustry":"construction","confidence":"high","reasoning":"Builds.","alternateIndustries":"real-estate"}`,
			wantSlug:       "construction",
			wantConfidence: model.ConfidenceHigh,
			wantReasoning:  "Builds.",
			wantAlternates: []model.IndustrySummary{},
		},
		{
			name:           "non-string alternate entries dropped",
			reply:          `{"matchedIndustry":"construction","confidence":"high","reasoning":"Builds.","alternateIndustries":[1,"real-estate"]}`,
			wantSlug:       "construction",
			wantConfidence: model.ConfidenceHigh,
			wantReasoning:  "Builds.",
			wantAlternates: summaries("real-estate"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := standardCatalog()
			provider := &fakeProvider{reply: tt.reply}
			m := New(catalog, provider, Config{}, nil)

			result, err := m.Match(context.Background(), "We build and renovate homes in regional Victoria.")
			require.NoError(t, err)

			assert.Equal(t, tt.wantSlug, result.MatchedIndustry.Slug)
			assert.True(t, result.MatchedIndustry.IsActive)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, tt.wantReasoning, result.Reasoning)
			if diff := cmp.Diff(tt.wantAlternates, result.AlternateIndustries); diff != "" {
				t.Errorf("alternates mismatch (-want +got):\n%s", diff)
			}

			assert.Len(t, provider.prompts, 1)
			assert.Equal(t, 1, catalog.listCalls)
			assert.Equal(t, 1, catalog.getCalls)
			if len(tt.wantAlternates) == 0 {
				assert.Empty(t, catalog.batchArgs)
			} else {
				require.Len(t, catalog.batchArgs, 1)
			}
		})
	}
}

func TestMatcher_Failures(t *testing.T) {
	tests := []struct {
		setup           func(c *fakeCatalog, p *fakeProvider)
		name            string
		description     string
		wantKind        Kind
		wantProvider    int
		wantCatalogList int
		nilProvider     bool
	}{
		{
			name:        "empty description",
			description: "",
			wantKind:    KindInvalidInput,
		},
		{
			name:        "blank description",
			description: " \n\t ",
			wantKind:    KindInvalidInput,
		},
		{
			name:        "provider not configured",
			description: "A cafe",
			nilProvider: true,
			wantKind:    KindNotConfigured,
		},
		{
			name:        "empty catalog",
			description: "A cafe",
			setup: func(c *fakeCatalog, _ *fakeProvider) {
				c.byslug = map[string]model.Industry{}
				c.order = nil
			},
			wantKind:        KindCatalogUnavailable,
			wantCatalogList: 1,
		},
		{
			name:        "catalog load error",
			description: "A cafe",
			setup: func(c *fakeCatalog, _ *fakeProvider) {
				c.listErr = errors.New("connection refused")
			},
			wantKind:        KindCatalogUnavailable,
			wantCatalogList: 1,
		},
		{
			name:        "prose wrapped JSON",
			description: "A builder",
			setup: func(_ *fakeCatalog, p *fakeProvider) {
				p.reply = `Sure! Here's the classification: {"matchedIndustry":"construction","confidence":"high","reasoning":"x","alternateIndustries":[]}`
			},
			wantKind:        KindProviderContractViolation,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "fenced JSON",
			description: "A builder",
			setup: func(_ *fakeCatalog, p *fakeProvider) {
				p.reply = "```json\n{\"matchedIndustry\":\"construction\"}\n```"
			},
			wantKind:        KindProviderContractViolation,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "null reply",
			description: "A builder",
			setup: func(_ *fakeCatalog, p *fakeProvider) {
				p.reply = "null"
			},
			wantKind:        KindProviderContractViolation,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "no text content",
			description: "A builder",
			setup: func(_ *fakeCatalog, p *fakeProvider) {
				p.err = llm.ErrNoTextContent
			},
			wantKind:        KindProviderContractViolation,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "provider outage",
			description: "A builder",
			setup: func(_ *fakeCatalog, p *fakeProvider) {
				p.err = errors.New("503 service unavailable")
			},
			wantKind:        KindProviderUnavailable,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "rate limited",
			description: "A builder",
			setup: func(_ *fakeCatalog, p *fakeProvider) {
				p.err = llm.ErrRateLimited
			},
			wantKind:        KindProviderUnavailable,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "fallback missing from catalog",
			description: "A plumber",
			setup: func(c *fakeCatalog, p *fakeProvider) {
				delete(c.byslug, "professional-services")
				c.order = []string{"construction", "real-estate"}
				p.reply = `{"matchedIndustry":"plumbing","confidence":"high","reasoning":"x"}`
			},
			wantKind:        KindCatalogUnavailable,
			wantProvider:    1,
			wantCatalogList: 1,
		},
		{
			name:        "match record lookup fails",
			description: "A builder",
			setup: func(c *fakeCatalog, p *fakeProvider) {
				c.getErr = errors.New("timeout")
				p.reply = `{"matchedIndustry":"construction","confidence":"high","reasoning":"x"}`
			},
			wantKind:        KindCatalogUnavailable,
			wantProvider:    1,
			wantCatalogList: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := standardCatalog()
			provider := &fakeProvider{}
			if tt.setup != nil {
				tt.setup(catalog, provider)
			}

			var m *Matcher
			if tt.nilProvider {
				m = New(catalog, nil, Config{}, nil)
			} else {
				m = New(catalog, provider, Config{}, nil)
			}

			result, err := m.Match(context.Background(), tt.description)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantKind, KindOf(err))

			var me *Error
			require.ErrorAs(t, err, &me)
			assert.NotEmpty(t, me.UserMessage)
			assert.NotContains(t, me.UserMessage, "matchedIndustry")

			assert.Len(t, provider.prompts, tt.wantProvider)
			assert.Equal(t, tt.wantCatalogList, catalog.listCalls)
		})
	}
}

func TestMatcher_AlternateBatchFailureDegrades(t *testing.T) {
	catalog := standardCatalog()
	catalog.batchErr = errors.New("read timeout")
	provider := &fakeProvider{reply: `{"matchedIndustry":"construction","confidence":"high","reasoning":"Builds.","alternateIndustries":["real-estate"]}`}

	result, err := New(catalog, provider, Config{}, nil).Match(context.Background(), "builder")
	require.NoError(t, err)
	assert.Equal(t, "construction", result.MatchedIndustry.Slug)
	assert.NotNil(t, result.AlternateIndustries)
	assert.Empty(t, result.AlternateIndustries)
}

func TestMatcher_ProviderTimeout(t *testing.T) {
	catalog := standardCatalog()
	provider := &fakeProvider{delay: time.Second, reply: `{"matchedIndustry":"construction"}`}

	m := New(catalog, provider, Config{ProviderTimeout: 20 * time.Millisecond}, nil)
	_, err := m.Match(context.Background(), "builder")
	require.Error(t, err)
	assert.Equal(t, KindProviderUnavailable, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMatcher_PromptContents(t *testing.T) {
	catalog := standardCatalog()
	provider := &fakeProvider{reply: `{"matchedIndustry":"construction","confidence":"high","reasoning":"x"}`}
	m := New(catalog, provider, Config{MaxDescriptionLength: 10}, nil)

	_, err := m.Match(context.Background(), "  Renovations and extensions  ")
	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)

	prompt := provider.prompts[0]
	assert.Contains(t, prompt, "Renovation")
	assert.NotContains(t, prompt, "Renovations and")
	assert.Contains(t, prompt, "construction: Construction - Builders and trades\n")
	assert.Contains(t, prompt, "real-estate: Real Estate - Agents and property managers\n")
	assert.NotContains(t, prompt, "mining")
	assert.Contains(t, prompt, `"professional-services"`)
	assert.Contains(t, prompt, "primary source of revenue")
	assert.Contains(t, prompt, "markdown")
	for _, field := range []string{"matchedIndustry", "confidence", "reasoning", "alternateIndustries"} {
		assert.Contains(t, prompt, field)
	}
}

func TestMatcher_ReasoningTruncated(t *testing.T) {
	catalog := standardCatalog()
	long := strings.Repeat("é", 40)
	provider := &fakeProvider{reply: `{"matchedIndustry":"retail","confidence":"low","reasoning":"` + long + `"}`}

	result, err := New(catalog, provider, Config{MaxReasoningLength: 16}, nil).Match(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 16), result.Reasoning)
}

func TestMatcher_Concurrent(t *testing.T) {
	catalog := standardCatalog()
	m := New(catalog, concurrentProvider{}, Config{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := m.Match(context.Background(), "A cafe in Ballarat")
			assert.NoError(t, err)
			if result != nil {
				assert.Equal(t, "hospitality", result.MatchedIndustry.Slug)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, catalog.listCalls)
}

type concurrentProvider struct{}

func (concurrentProvider) Complete(context.Context, string) (string, error) {
	return `{"matchedIndustry":"hospitality","confidence":"high","reasoning":"Cafe.","alternateIndustries":["retail"]}`, nil
}

func TestKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		name   string
		status int
	}{
		{KindInvalidInput, "InvalidInput", 400},
		{KindNotConfigured, "NotConfigured", 500},
		{KindCatalogUnavailable, "CatalogUnavailable", 503},
		{KindProviderContractViolation, "ProviderContractViolation", 502},
		{KindProviderUnavailable, "ProviderUnavailable", 502},
		{KindUnknown, "Unknown", 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
		})
	}

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	wrapped := errors.Join(errors.New("ctx"), newError(KindInvalidInput, nil))
	assert.Equal(t, KindInvalidInput, KindOf(wrapped))
}

func TestError_CarriesUserMessage(t *testing.T) {
	cause := llm.ErrNoTextContent
	err := fmt.Errorf("match: %w", newError(KindProviderContractViolation, cause))

	assert.Equal(t, KindProviderContractViolation.UserMessage(), common.UserMessage(err, "fallback"))
	assert.ErrorIs(t, err, llm.ErrNoTextContent)
	assert.NotContains(t, common.UserMessage(err, "fallback"), cause.Error())

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, cause, userErr.Err)
}
