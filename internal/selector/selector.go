// Package selector asks the completion service which of a homepage's links
// are worth fetching for business research.
package selector

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/completion"
	"github.com/sells-group/site-intel/internal/model"
)

// MaxPromptLinks bounds how many links are serialized into one prompt.
const MaxPromptLinks = 150

const rubric = `You choose which pages of a company website to read in order to understand the business.

Prefer pages that describe:
- what the company sells: products, services, solutions, platform, features
- who it sells to: industries, customers, case studies
- pricing and plans
- the company itself: about, team, leadership, history, locations, careers
- contact details

Avoid:
- legal pages (privacy, terms, cookies, accessibility)
- login, signup, account, cart and checkout pages
- individual blog posts, news items, tag and archive listings
- social media profiles and generic third-party sites
- duplicates of a page already chosen (same page in another language or with tracking parameters)

Choose at most %d pages. Choosing fewer is fine; choosing none is fine when nothing qualifies.
Only use URLs exactly as listed.

Respond with one JSON object and nothing else:
{"selected_links": [{"url": "<url from the list>", "reasoning": "<one short sentence>"}]}`

const userPrompt = `Company: %s
Website: %s

Homepage excerpt:
%s

Link categories: %s

Candidate links (%d of %d shown):
%s`

// excerptChars caps the homepage excerpt given as context.
const excerptChars = 1500

// CompanyContext describes the site being crawled.
type CompanyContext struct {
	Name            string
	WebsiteURL      string
	HomepageExcerpt string
}

// Selector picks pages with a completion.Service.
type Selector struct {
	svc      completion.Service
	maxPicks int
}

// Option configures a Selector.
type Option func(*Selector)

// WithMaxSelected lowers the selection cap. Values outside 1..10 are ignored.
func WithMaxSelected(n int) Option {
	return func(s *Selector) {
		if n > 0 && n <= model.MaxSelectedLinks {
			s.maxPicks = n
		}
	}
}

// New returns a Selector backed by svc.
func New(svc completion.Service, opts ...Option) *Selector {
	s := &Selector{svc: svc, maxPicks: model.MaxSelectedLinks}
	for _, o := range opts {
		o(s)
	}
	return s
}

type response struct {
	SelectedLinks []struct {
		URL       string `json:"url"`
		Reasoning string `json:"reasoning"`
	} `json:"selected_links"`
}

// Select returns 0..maxPicks of links. Empty input, an unparseable answer and
// an empty answer are terminal strategies, not errors. Only a failed call to
// the completion service is returned as an error.
func (s *Selector) Select(ctx context.Context, links []model.ExtractedLink, cc CompanyContext) (*model.LinkSelection, error) {
	if len(links) == 0 {
		return emptySelection(model.StrategyNoLinks), nil
	}

	offered := promptLinks(links)
	prompt := completion.Prompt{
		System: fmt.Sprintf(rubric, s.maxPicks),
		Text: fmt.Sprintf(userPrompt,
			orUnknown(cc.Name), orUnknown(cc.WebsiteURL),
			excerpt(cc.HomepageExcerpt),
			categorySummary(offered),
			len(offered), len(links), serialize(offered)),
	}

	text, err := s.svc.Complete(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "selector: complete")
	}

	var resp response
	if err := completion.DecodeJSON(text, &resp); err != nil {
		zap.L().Warn("selector: unparseable response",
			zap.String("website", cc.WebsiteURL),
			zap.Error(err),
		)
		return emptySelection(model.StrategyAIParsingFailed), nil
	}

	byKey := make(map[string]model.ExtractedLink, len(offered))
	for _, l := range offered {
		byKey[urlKey(l.URL)] = l
	}

	sel := &model.LinkSelection{Strategy: model.StrategyAISelection}
	picked := make(map[string]bool)
	for _, r := range resp.SelectedLinks {
		if len(sel.SelectedLinks) >= s.maxPicks {
			break
		}
		k := urlKey(r.URL)
		l, ok := byKey[k]
		if !ok || picked[k] {
			continue
		}
		picked[k] = true
		sel.SelectedLinks = append(sel.SelectedLinks, model.SelectedLink{
			ExtractedLink: l,
			Reasoning:     strings.TrimSpace(r.Reasoning),
		})
	}

	if dropped := len(resp.SelectedLinks) - len(sel.SelectedLinks); dropped > 0 {
		zap.L().Debug("selector: ignored picks",
			zap.Int("returned", len(resp.SelectedLinks)),
			zap.Int("kept", len(sel.SelectedLinks)),
		)
	}

	if len(sel.SelectedLinks) == 0 {
		return emptySelection(model.StrategyAISelectedNone), nil
	}
	sel.TotalSelected = len(sel.SelectedLinks)
	return sel, nil
}

func emptySelection(strategy string) *model.LinkSelection {
	return &model.LinkSelection{SelectedLinks: []model.SelectedLink{}, Strategy: strategy}
}

// promptLinks keeps internal links ahead of external ones, in page order, up
// to MaxPromptLinks.
func promptLinks(links []model.ExtractedLink) []model.ExtractedLink {
	out := make([]model.ExtractedLink, 0, min(len(links), MaxPromptLinks))
	for _, external := range []bool{false, true} {
		for _, l := range links {
			if len(out) == MaxPromptLinks {
				return out
			}
			if l.IsExternal == external {
				out = append(out, l)
			}
		}
	}
	return out
}

// categorySummary counts offered links per category, in category order,
// skipping empty ones: "about 2, pricing 1, other 4".
func categorySummary(links []model.ExtractedLink) string {
	counts := make(map[model.LinkCategory]int)
	for _, l := range links {
		counts[l.Category]++
	}
	var parts []string
	for _, c := range model.AllLinkCategories() {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func serialize(links []model.ExtractedLink) string {
	var b strings.Builder
	for i, l := range links {
		fmt.Fprintf(&b, "%d. [%s] %q %s", i+1, l.Category, l.Text, l.URL)
		if l.IsExternal {
			b.WriteString(" (external)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// urlKey matches a returned URL against an offered one regardless of case
// and trailing slash.
func urlKey(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(none)"
	}
	r := []rune(s)
	if len(r) > excerptChars {
		return string(r[:excerptChars]) + "..."
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
