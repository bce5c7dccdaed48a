package selector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-intel/internal/completion"
	"github.com/sells-group/site-intel/internal/model"
)

type fakeService struct {
	reply   string
	err     error
	prompts []completion.Prompt
}

func (f *fakeService) Complete(_ context.Context, p completion.Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.reply, f.err
}

func makeLinks(n int) []model.ExtractedLink {
	out := make([]model.ExtractedLink, n)
	for i := range out {
		out[i] = model.ExtractedLink{
			URL:      fmt.Sprintf("https://acme.com/page-%d", i),
			Text:     fmt.Sprintf("Page %d", i),
			Domain:   "acme.com",
			Category: model.LinkCategoryOther,
		}
	}
	return out
}

func replyWith(t *testing.T, urls ...string) string {
	t.Helper()
	type pick struct {
		URL       string `json:"url"`
		Reasoning string `json:"reasoning"`
	}
	picks := make([]pick, len(urls))
	for i, u := range urls {
		picks[i] = pick{URL: u, Reasoning: "describes the business"}
	}
	b, err := json.Marshal(map[string]any{"selected_links": picks})
	require.NoError(t, err)
	return "Here is my selection:\n```json\n" + string(b) + "\n```"
}

func TestSelect_NoLinks(t *testing.T) {
	svc := &fakeService{}
	sel, err := New(svc).Select(context.Background(), nil, CompanyContext{})
	require.NoError(t, err)
	assert.Equal(t, model.StrategyNoLinks, sel.Strategy)
	assert.Equal(t, 0, sel.TotalSelected)
	assert.Empty(t, svc.prompts, "no completion call for empty input")
}

func TestSelect_CapsAtTen(t *testing.T) {
	links := makeLinks(15)
	urls := make([]string, len(links))
	for i, l := range links {
		urls[i] = l.URL
	}
	svc := &fakeService{reply: replyWith(t, urls...)}

	sel, err := New(svc).Select(context.Background(), links, CompanyContext{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, model.StrategyAISelection, sel.Strategy)
	assert.LessOrEqual(t, sel.TotalSelected, 10)
	assert.Len(t, sel.SelectedLinks, sel.TotalSelected)
	assert.Equal(t, "https://acme.com/page-0", sel.SelectedLinks[0].URL)
	assert.Equal(t, "describes the business", sel.SelectedLinks[0].Reasoning)
}

func TestSelect_OnlyOfferedAndDeduped(t *testing.T) {
	links := makeLinks(3)
	svc := &fakeService{reply: replyWith(t,
		"https://acme.com/page-1/",
		"HTTPS://ACME.COM/page-1",
		"https://evil.example/not-offered",
		"https://acme.com/page-2",
	)}

	sel, err := New(svc).Select(context.Background(), links, CompanyContext{})
	require.NoError(t, err)
	require.Equal(t, 2, sel.TotalSelected)
	assert.Equal(t, "https://acme.com/page-1", sel.SelectedLinks[0].URL)
	assert.Equal(t, "https://acme.com/page-2", sel.SelectedLinks[1].URL)
}

func TestSelect_ParsingFailed(t *testing.T) {
	svc := &fakeService{reply: "I think the about page looks useful."}
	sel, err := New(svc).Select(context.Background(), makeLinks(2), CompanyContext{})
	require.NoError(t, err)
	assert.Equal(t, model.StrategyAIParsingFailed, sel.Strategy)
	assert.Empty(t, sel.SelectedLinks)
}

func TestSelect_SelectedNone(t *testing.T) {
	for _, reply := range []string{
		`{"selected_links": []}`,
		`{"selected_links": [{"url": "https://unknown.example/"}]}`,
		`{"something_else": true}`,
	} {
		svc := &fakeService{reply: reply}
		sel, err := New(svc).Select(context.Background(), makeLinks(2), CompanyContext{})
		require.NoError(t, err)
		assert.Equal(t, model.StrategyAISelectedNone, sel.Strategy, reply)
		assert.Equal(t, 0, sel.TotalSelected)
	}
}

func TestSelect_ServiceError(t *testing.T) {
	svc := &fakeService{err: errors.New("connection refused")}
	sel, err := New(svc).Select(context.Background(), makeLinks(2), CompanyContext{})
	require.Error(t, err)
	assert.Nil(t, sel)
	assert.Contains(t, err.Error(), "selector: complete")
}

func TestSelect_WithMaxSelected(t *testing.T) {
	links := makeLinks(5)
	svc := &fakeService{reply: replyWith(t, links[0].URL, links[1].URL, links[2].URL)}

	sel, err := New(svc, WithMaxSelected(2)).Select(context.Background(), links, CompanyContext{})
	require.NoError(t, err)
	assert.Equal(t, 2, sel.TotalSelected)
	assert.Contains(t, svc.prompts[0].System, "at most 2 pages")

	s := New(svc, WithMaxSelected(50))
	assert.Equal(t, model.MaxSelectedLinks, s.maxPicks)
}

func TestSelect_PromptContents(t *testing.T) {
	links := []model.ExtractedLink{
		{URL: "https://twitter.com/acme", Text: "Twitter", IsExternal: true, Category: model.LinkCategoryOther},
		{URL: "https://acme.com/about", Text: "About us", Category: model.LinkCategoryAbout},
	}
	svc := &fakeService{reply: `{"selected_links":[]}`}
	_, err := New(svc).Select(context.Background(), links, CompanyContext{
		Name: "Acme", WebsiteURL: "https://acme.com", HomepageExcerpt: "Acme makes widgets",
	})
	require.NoError(t, err)
	require.Len(t, svc.prompts, 1)

	p := svc.prompts[0]
	assert.False(t, p.UseWebTools)
	assert.Contains(t, p.System, "selected_links")
	assert.Contains(t, p.Text, "Company: Acme")
	assert.Contains(t, p.Text, "Acme makes widgets")
	assert.Contains(t, p.Text, "Link categories: about 1, other 1")
	about := strings.Index(p.Text, "https://acme.com/about")
	twitter := strings.Index(p.Text, "https://twitter.com/acme (external)")
	require.True(t, about >= 0 && twitter >= 0)
	assert.Less(t, about, twitter, "internal links listed first")
}

func TestCategorySummary(t *testing.T) {
	links := []model.ExtractedLink{
		{Category: model.LinkCategoryOther},
		{Category: model.LinkCategoryPricing},
		{Category: model.LinkCategoryAbout},
		{Category: model.LinkCategoryOther},
	}
	assert.Equal(t, "about 1, pricing 1, other 2", categorySummary(links))
	assert.Equal(t, "none", categorySummary(nil))
}

func TestPromptLinks_Cap(t *testing.T) {
	links := makeLinks(MaxPromptLinks + 40)
	for i := 0; i < 40; i++ {
		links[i].IsExternal = true
	}
	out := promptLinks(links)
	require.Len(t, out, MaxPromptLinks)
	for _, l := range out {
		assert.False(t, l.IsExternal)
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "(none)", excerpt("  "))
	long := strings.Repeat("é", excerptChars+10)
	got := excerpt(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, []rune(got), excerptChars+3)
}
