// Package pipeline is the inbound entry point: crawl a company website,
// extract business facts from the crawled corpus, and assemble a Report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/completion"
	"github.com/sells-group/site-intel/internal/crawl"
	"github.com/sells-group/site-intel/internal/design"
	"github.com/sells-group/site-intel/internal/model"
)

// Crawler runs one website crawl.
type Crawler interface {
	Crawl(ctx context.Context, websiteURL string, s *crawl.Session) crawl.Outcome
}

// Pipeline turns a Request into a Report.
type Pipeline struct {
	crawler     Crawler
	facts       completion.Service
	webResearch bool
	newID       func() string
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWebResearch lets fact extraction fall back to a web-search-backed
// prompt when the crawl produced no content.
func WithWebResearch(enabled bool) Option {
	return func(p *Pipeline) { p.webResearch = enabled }
}

// New returns a Pipeline. A nil facts service skips AI extraction and
// reports URL heuristics only.
func New(c Crawler, facts completion.Service, opts ...Option) *Pipeline {
	p := &Pipeline{
		crawler: c,
		facts:   facts,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes one analysis. It always returns a Report; failures degrade
// the report and are described in its metadata.
func (p *Pipeline) Run(ctx context.Context, req model.Request) (rep *model.Report) {
	id := strings.TrimSpace(req.CorrelationID)
	if id == "" {
		id = p.newID()
	}
	site := crawl.NormalizeWebsiteURL(req.WebsiteURL)
	log := zap.L().With(zap.String("url", site), zap.String("correlation_id", id))
	log.Info("pipeline: starting analysis")

	s := crawl.NewSession(id)
	start := p.now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: panic, returning url heuristics", zap.Any("panic", r))
			s.Record("panic", site, fmt.Sprint(r))
			rep = p.report(site, s, crawl.Outcome{
				Status: crawl.StatusDegraded,
				Result: model.CrawlResult{WebsiteURL: site, AnalysisMethod: model.MethodURLOnlyFallback, SelectionStrategy: model.StrategyNone},
				Reason: fmt.Sprintf("panic: %v", r),
			}, urlHeuristics(site), FactsSourceURL)
		}
	}()

	var out crawl.Outcome
	phase(log, "crawl", func() error {
		out = p.crawler.Crawl(ctx, site, s)
		if out.Degraded() {
			return eris.New(out.Reason)
		}
		return nil
	})

	var (
		fields map[string]any
		source string
	)
	phase(log, "facts", func() error {
		var err error
		fields, source, err = p.extractFacts(ctx, site, out.Result, s)
		return err
	})

	rep = p.report(site, s, out, fields, source)
	log.Info("pipeline: analysis complete",
		zap.String("method", string(rep.ExtractionMetadata.Method)),
		zap.String("facts_source", source),
		zap.Int("pages", rep.ExtractionMetadata.PagesAnalyzed),
		zap.Int("fields", len(fields)),
		zap.Duration("elapsed", p.now().Sub(start)),
	)
	return rep
}

// phase runs fn and logs its duration and outcome.
func phase(log *zap.Logger, name string, fn func() error) {
	start := time.Now()
	err := fn()
	ms := time.Since(start).Milliseconds()
	if err != nil {
		log.Warn("pipeline: phase degraded", zap.String("phase", name), zap.Int64("duration_ms", ms), zap.Error(err))
		return
	}
	log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", ms))
}

func (p *Pipeline) report(site string, s *crawl.Session, out crawl.Outcome, fields map[string]any, source string) *model.Report {
	res := out.Result
	assets := res.DesignAssets
	if assets == nil {
		empty := design.Empty(site)
		assets = &empty
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return &model.Report{
		WebsiteURL:   site,
		Fields:       fields,
		DesignAssets: assets,
		ExtractionMetadata: model.ExtractionMetadata{
			Method:            res.AnalysisMethod,
			SelectionStrategy: res.SelectionStrategy,
			PagesAnalyzed:     res.PagesAnalyzed(),
			ContentLength:     len(res.Corpus),
			Timestamp:         p.now().UTC(),
			CorrelationID:     s.ID,
			Degraded:          out.Degraded(),
			Reason:            out.Reason,
			FactsSource:       source,
		},
		Diagnostics: s.Diagnostics(),
	}
}
