package main

import (
	"time"

	"github.com/sells-group/site-intel/internal/assetstore"
	"github.com/sells-group/site-intel/internal/completion"
	"github.com/sells-group/site-intel/internal/config"
	"github.com/sells-group/site-intel/internal/crawl"
	"github.com/sells-group/site-intel/internal/design"
	"github.com/sells-group/site-intel/internal/fetch"
	"github.com/sells-group/site-intel/internal/pipeline"
	"github.com/sells-group/site-intel/internal/selector"
	"github.com/sells-group/site-intel/internal/textclean"
	anthropicpkg "github.com/sells-group/site-intel/pkg/anthropic"
)

// pipelineEnv holds the collaborators built from config for the crawl and
// serve commands.
type pipelineEnv struct {
	Fetcher    *fetch.HTTPFetcher
	Completion completion.Service
	Crawler    *crawl.Crawler
	Pipeline   *pipeline.Pipeline
}

// newFetcher builds the HTTP fetcher from crawl config.
func newFetcher(c *config.Config) *fetch.HTTPFetcher {
	return fetch.NewHTTP(fetch.Options{
		UserAgent:     c.Crawl.UserAgent,
		Timeout:       time.Duration(c.Crawl.FetchTimeoutSecs) * time.Second,
		MaxBodyBytes:  c.Crawl.MaxBodyBytes,
		CourtesyDelay: time.Duration(c.Crawl.CourtesyDelayMS) * time.Millisecond,
	})
}

// newDesignExtractor builds the design extractor. Assets are only written to
// disk when design.asset_dir is set.
func newDesignExtractor(c *config.Config, f fetch.Fetcher) *design.Extractor {
	opts := []design.Option{design.WithMaxCSSFiles(c.Design.MaxCSSFiles)}
	if c.Design.AssetDir != "" {
		opts = append(opts, design.WithStore(assetstore.NewFileStore(c.Design.AssetDir)))
	}
	return design.New(f, opts...)
}

func textOptions(c *config.Config) []textclean.Option {
	th := textclean.DefaultThresholds()
	if c.Text.MaxChars > 0 {
		th.MaxChars = c.Text.MaxChars
	}
	if c.Text.FallbackMaxChars > 0 {
		th.FallbackMaxChars = c.Text.FallbackMaxChars
	}
	return []textclean.Option{textclean.WithThresholds(th)}
}

// initPipeline validates config for mode and wires the crawl pipeline.
func initPipeline(mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	svc := completion.NewAnthropic(
		anthropicpkg.NewClient(cfg.Anthropic.Key),
		completion.WithModel(cfg.Anthropic.Model),
		completion.WithMaxTokens(int64(cfg.Anthropic.MaxTokens)),
		completion.WithPacing(time.Duration(cfg.Anthropic.PacingMS)*time.Millisecond),
	)
	return buildEnv(cfg, newFetcher(cfg), svc), nil
}

// buildEnv wires the crawler and pipeline around a fetcher and completion
// service.
func buildEnv(c *config.Config, f *fetch.HTTPFetcher, svc completion.Service) *pipelineEnv {
	opts := []crawl.Option{
		crawl.WithTextOptions(textOptions(c)...),
		crawl.WithOverlap(c.Crawl.Overlap),
	}
	if c.Design.Enabled {
		opts = append(opts, crawl.WithDesign(newDesignExtractor(c, f)))
	}
	cr := crawl.New(f, selector.New(svc, selector.WithMaxSelected(c.Crawl.MaxSelected)), opts...)

	return &pipelineEnv{
		Fetcher:    f,
		Completion: svc,
		Crawler:    cr,
		Pipeline:   pipeline.New(cr, svc, pipeline.WithWebResearch(c.Anthropic.WebResearch)),
	}
}
