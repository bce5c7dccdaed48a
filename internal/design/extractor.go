// Package design mines a homepage's CSS and markup for brand colors,
// typography, logo, favicon and recurring visual patterns.
package design

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/assetstore"
	"github.com/sells-group/site-intel/internal/fetch"
	"github.com/sells-group/site-intel/internal/links"
	"github.com/sells-group/site-intel/internal/model"
)

// DefaultMaxCSSFiles bounds how many linked stylesheets are fetched per page.
const DefaultMaxCSSFiles = 5

// Extractor produces DesignAssets. A nil fetcher disables every network call.
type Extractor struct {
	fetcher fetch.Fetcher
	store   assetstore.Store
	maxCSS  int
	now     func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStore sets where logo and favicon bytes are written.
func WithStore(s assetstore.Store) Option {
	return func(e *Extractor) {
		if s != nil {
			e.store = s
		}
	}
}

// WithMaxCSSFiles overrides DefaultMaxCSSFiles. Zero skips linked stylesheets.
func WithMaxCSSFiles(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.maxCSS = n
		}
	}
}

// New returns an Extractor. Without WithStore, assets are found but not kept.
func New(f fetch.Fetcher, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher: f,
		store:   assetstore.Discard{},
		maxCSS:  DefaultMaxCSSFiles,
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Empty returns DesignAssets with every field in its not-found state.
func Empty(pageURL string) model.DesignAssets {
	return model.DesignAssets{
		ColorPalette: model.ColorPalette{
			Primary: []string{}, Secondary: []string{}, Text: []string{},
			Background: []string{}, Accent: []string{}, All: []string{},
		},
		Typography: model.Typography{
			PrimaryFont:   model.NotFound,
			SecondaryFont: model.NotFound,
			AllFonts:      []string{},
			WebFonts:      []string{},
			FontWeights:   []string{},
			SizeScale:     []string{},
		},
		LogoAssets: model.LogoAssets{
			Logo:    model.AssetFile{Status: model.LogoStatusNotFound},
			Favicon: model.AssetFile{Status: model.LogoStatusNotFound},
		},
		VisualElements: model.VisualElements{
			BorderRadius: []string{}, Shadows: []string{}, Spacing: []string{},
		},
		ExtractionMetadata: model.DesignExtraction{SourceURL: pageURL},
	}
}

// Extract never fails. Each section that breaks is left at its Empty value
// and the reason is listed in ExtractionMetadata.Errors.
func (e *Extractor) Extract(ctx context.Context, html, pageURL string) model.DesignAssets {
	out := Empty(pageURL)
	meta := &out.ExtractionMetadata
	meta.ExtractedAt = e.now().UTC()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		meta.Errors = append(meta.Errors, "parse html: "+err.Error())
		return out
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		meta.Errors = append(meta.Errors, fmt.Sprintf("invalid page url %q", pageURL))
		base = nil
	}
	company := links.CompanyKey(pageURL)

	var src *sources
	e.guard("stylesheets", &meta.Errors, func() {
		src = e.collect(ctx, doc, base, &meta.Errors)
		src.parse()
		meta.CSSFilesFound = src.cssFound
		meta.CSSFilesLoaded = src.cssLoaded
	})
	if src == nil {
		src = &sources{}
	}

	e.guard("colors", &meta.Errors, func() { out.ColorPalette = e.colors(src) })
	e.guard("typography", &meta.Errors, func() { out.Typography = e.typography(doc, src) })
	e.guard("logos", &meta.Errors, func() { out.LogoAssets = e.logos(ctx, doc, base, company, &meta.Errors) })
	e.guard("visual", &meta.Errors, func() { out.VisualElements = e.visual(src) })

	zap.L().Debug("design: extracted",
		zap.String("url", pageURL),
		zap.Int("colors", len(out.ColorPalette.All)),
		zap.Int("fonts", len(out.Typography.AllFonts)),
		zap.String("logo", out.LogoAssets.Logo.Status),
		zap.Int("css_loaded", meta.CSSFilesLoaded),
		zap.Int("errors", len(meta.Errors)),
	)
	return out
}

// guard runs fn and turns a panic into a recorded error.
func (e *Extractor) guard(section string, errs *[]string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("design: section panicked", zap.String("section", section), zap.Any("panic", r))
			*errs = append(*errs, fmt.Sprintf("%s: %v", section, r))
		}
	}()
	fn()
}
