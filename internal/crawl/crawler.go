// Package crawl orchestrates one company-website crawl: homepage fetch, AI
// page selection, sequential page fetches and corpus assembly, wrapped in a
// fallback sequence that always yields a well-formed result.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/fetch"
	"github.com/sells-group/site-intel/internal/links"
	"github.com/sells-group/site-intel/internal/model"
	"github.com/sells-group/site-intel/internal/selector"
	"github.com/sells-group/site-intel/internal/textclean"
)

// PageSelector narrows homepage links to the pages worth fetching.
type PageSelector interface {
	Select(ctx context.Context, links []model.ExtractedLink, cc selector.CompanyContext) (*model.LinkSelection, error)
}

// DesignExtractor mines design assets from a page.
type DesignExtractor interface {
	Extract(ctx context.Context, html, pageURL string) model.DesignAssets
}

// ErrNoContent is returned by a tier that fetched pages but kept no text.
var ErrNoContent = eris.New("crawl: no content extracted")

// Status tags an Outcome.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusDegraded Status = "degraded"
)

// Outcome is the result of Crawl. Result is always well-formed; Reason
// explains why richer tiers were skipped when Status is StatusDegraded.
type Outcome struct {
	Status Status
	Result model.CrawlResult
	Reason string
}

// Degraded reports whether a fallback tier produced the result.
func (o Outcome) Degraded() bool { return o.Status == StatusDegraded }

// Crawler runs crawls. It holds no per-crawl state.
type Crawler struct {
	fetcher  fetch.Fetcher
	selector PageSelector
	design   DesignExtractor
	textOpts []textclean.Option
	overlap  float64
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithDesign enables design-asset extraction on the homepage.
func WithDesign(d DesignExtractor) Option {
	return func(c *Crawler) { c.design = d }
}

// WithTextOptions passes options to every text extraction.
func WithTextOptions(opts ...textclean.Option) Option {
	return func(c *Crawler) { c.textOpts = append(c.textOpts, opts...) }
}

// WithOverlap overrides DefaultOverlap for homepage-line dedup.
func WithOverlap(f float64) Option {
	return func(c *Crawler) {
		if f > 0 && f <= 1 {
			c.overlap = f
		}
	}
}

// New returns a Crawler.
func New(f fetch.Fetcher, sel PageSelector, opts ...Option) *Crawler {
	c := &Crawler{fetcher: f, selector: sel, overlap: DefaultOverlap}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tier struct {
	name string
	run  func(ctx context.Context, site string, s *Session) (model.CrawlResult, error)
}

// Crawl tries the multi-page tier, then the single-page tier, and finally
// returns a URL-only result. It never panics and never returns an error.
func (c *Crawler) Crawl(ctx context.Context, websiteURL string, s *Session) (out Outcome) {
	if s == nil {
		s = NewSession("")
	}
	site := NormalizeWebsiteURL(websiteURL)
	log := zap.L().With(zap.String("url", site), zap.String("correlation_id", s.ID))

	var reasons []string
	defer func() {
		if r := recover(); r != nil {
			log.Error("crawl: panic, returning url-only result", zap.Any("panic", r))
			reasons = append(reasons, fmt.Sprintf("panic: %v", r))
			s.Record("panic", site, fmt.Sprint(r))
			out = Outcome{Status: StatusDegraded, Result: urlOnly(site), Reason: strings.Join(reasons, "; ")}
		}
	}()

	tiers := []tier{
		{"multi_page", c.multiPage},
		{"single_page", c.singlePage},
	}
	for i, t := range tiers {
		res, err := t.run(ctx, site, s)
		if err == nil {
			o := Outcome{Status: StatusSuccess, Result: res}
			if i > 0 {
				o.Status = StatusDegraded
				o.Reason = strings.Join(reasons, "; ")
			}
			log.Info("crawl: complete",
				zap.String("method", string(res.AnalysisMethod)),
				zap.String("strategy", res.SelectionStrategy),
				zap.Int("pages", res.PagesAnalyzed()),
				zap.Int("corpus_chars", len(res.Corpus)),
			)
			return o
		}
		log.Warn("crawl: tier failed", zap.String("tier", t.name), zap.Error(err))
		s.Record(t.name+"_failed", site, err.Error())
		reasons = append(reasons, t.name+": "+err.Error())
	}

	s.Record("url_only", site, "")
	return Outcome{Status: StatusDegraded, Result: urlOnly(site), Reason: strings.Join(reasons, "; ")}
}

// NormalizeWebsiteURL adds a missing scheme and an empty path's "/".
func NormalizeWebsiteURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	return u.String()
}

// homepage fetches and cleans the homepage and mines its design assets.
func (c *Crawler) homepage(ctx context.Context, site string, s *Session) (*model.RawPage, model.PageContent, *model.DesignAssets, error) {
	page, err := c.fetcher.Fetch(ctx, site)
	if err != nil {
		return nil, model.PageContent{}, nil, eris.Wrap(err, "crawl: homepage fetch")
	}
	s.Record("homepage_fetch", page.URL, fmt.Sprintf("%d bytes", len(page.HTML)))

	home := c.pageContent(page, false)
	home.Domain = links.NormalizeHost(hostname(page.URL))

	var assets *model.DesignAssets
	if c.design != nil {
		d := s.Design(ctx, links.CompanyKey(page.URL), func(ctx context.Context) model.DesignAssets {
			s.Record("design_extract", page.URL, "")
			return c.design.Extract(ctx, page.HTML, page.URL)
		})
		assets = &d
	}
	return page, home, assets, nil
}

func (c *Crawler) pageContent(page *model.RawPage, skipFooterNav bool) model.PageContent {
	opts := c.textOpts
	if skipFooterNav {
		opts = append(append([]textclean.Option{}, c.textOpts...), textclean.WithSkipFooterNav())
	}
	text := textclean.ExtractCleanText(page.HTML, opts...)
	return model.PageContent{
		URL:           page.URL,
		Title:         textclean.ExtractTitle(page.HTML),
		CleanText:     text,
		ContentLength: len(text),
	}
}

func (c *Crawler) multiPage(ctx context.Context, site string, s *Session) (model.CrawlResult, error) {
	s.resetURLs()

	page, home, assets, err := c.homepage(ctx, site, s)
	if err != nil {
		return model.CrawlResult{}, err
	}
	s.MarkFetched(site)
	s.MarkFetched(page.URL)

	found := links.ExtractAllLinks(page.HTML, page.URL)
	var candidates []model.ExtractedLink
	for _, l := range found {
		if s.Mention(l.URL) {
			candidates = append(candidates, l)
		}
	}
	s.Record("links_extracted", page.URL, fmt.Sprintf("%d links", len(candidates)))

	res := model.CrawlResult{
		WebsiteURL:      site,
		HomepageContent: home,
		AdditionalPages: []model.PageContent{},
		DesignAssets:    assets,
	}

	name := textclean.ExtractSiteName(page.HTML)
	if name == "" {
		name = links.CompanyNameFromURL(page.URL)
	}
	sel, err := c.selector.Select(ctx, candidates, selector.CompanyContext{
		Name:            name,
		WebsiteURL:      page.URL,
		HomepageExcerpt: home.CleanText,
	})
	if err != nil {
		s.Record("link_select", page.URL, "error: "+err.Error())
		res.AnalysisMethod = model.MethodHomepageOnlySelectError
		res.SelectionStrategy = model.StrategySelectionError
		return finish(res)
	}
	s.Record("link_select", page.URL, fmt.Sprintf("%s: %d selected", sel.Strategy, sel.TotalSelected))

	switch sel.Strategy {
	case model.StrategyNoLinks:
		res.AnalysisMethod = model.MethodHomepageOnlyNoLinks
	case model.StrategyAIParsingFailed:
		res.AnalysisMethod = model.MethodHomepageOnlyParseFailed
	case model.StrategyAISelectedNone:
		res.AnalysisMethod = model.MethodHomepageOnlyNoneChosen
	}
	res.SelectionStrategy = sel.Strategy
	if res.AnalysisMethod.IsHomepageOnly() {
		return finish(res)
	}

	homeLines := newLineSet(home.CleanText)
	for _, l := range sel.SelectedLinks {
		if s.Fetched(l.URL) {
			s.Record("page_skip", l.URL, "already fetched")
			continue
		}
		s.MarkFetched(l.URL)
		res.AdditionalPages = append(res.AdditionalPages, c.secondaryPage(ctx, l, homeLines, s))
	}

	res.AnalysisMethod = model.MethodMultiPage
	res.PagesSelected = sel.TotalSelected
	return finish(res)
}

// secondaryPage fetches one selected page. Failures are recorded on the page
// and never abort the crawl.
func (c *Crawler) secondaryPage(ctx context.Context, l model.SelectedLink, homeLines *lineSet, s *Session) model.PageContent {
	pc := model.PageContent{URL: l.URL, IsExternal: l.IsExternal, Domain: l.Domain}

	page, err := c.fetcher.Fetch(ctx, l.URL)
	if err != nil {
		pc.Error = err.Error()
		s.Record("page_fetch", l.URL, "error: "+err.Error())
		zap.L().Debug("crawl: page fetch failed", zap.String("url", l.URL), zap.Error(err))
		return pc
	}
	if page.URL != l.URL {
		s.MarkFetched(page.URL)
	}

	sameDomain := !l.IsExternal
	got := c.pageContent(page, sameDomain)
	pc.Title = got.Title
	text := got.CleanText

	dropped := 0
	if sameDomain {
		text, dropped = dropRepeatedLines(text, homeLines, c.overlap)
	}
	if block := pageLinksBlock(links.ExtractAllLinks(page.HTML, page.URL), s); block != "" {
		text = strings.TrimSpace(text + "\n\n" + block)
	}

	pc.CleanText = text
	pc.ContentLength = len(text)
	s.Record("page_fetch", l.URL, fmt.Sprintf("%d chars, %d repeated lines dropped", len(text), dropped))
	return pc
}

func (c *Crawler) singlePage(ctx context.Context, site string, s *Session) (model.CrawlResult, error) {
	_, home, assets, err := c.homepage(ctx, site, s)
	if err != nil {
		return model.CrawlResult{}, err
	}
	return finish(model.CrawlResult{
		WebsiteURL:        site,
		HomepageContent:   home,
		AdditionalPages:   []model.PageContent{},
		AnalysisMethod:    model.MethodSinglePageFallback,
		SelectionStrategy: model.StrategyNone,
		DesignAssets:      assets,
	})
}

// finish assembles the corpus and rejects results without any text.
func finish(res model.CrawlResult) (model.CrawlResult, error) {
	if res.PagesAnalyzed() == 0 {
		return model.CrawlResult{}, ErrNoContent
	}
	res.Corpus = assembleCorpus(res.HomepageContent, res.AdditionalPages)
	return res, nil
}

func urlOnly(site string) model.CrawlResult {
	return model.CrawlResult{
		WebsiteURL: site,
		HomepageContent: model.PageContent{
			URL:    site,
			Domain: links.NormalizeHost(hostname(site)),
		},
		AdditionalPages:   []model.PageContent{},
		AnalysisMethod:    model.MethodURLOnlyFallback,
		SelectionStrategy: model.StrategyNone,
	}
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
