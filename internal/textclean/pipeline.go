// Package textclean turns raw HTML into clean, business-relevant prose using
// structural and statistical heuristics rather than site-specific blocklists.
package textclean

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Option configures a single extraction.
type Option func(*options)

type options struct {
	skipFooterNav bool
	scorer        Scorer
	thresholds    Thresholds
}

// WithSkipFooterNav removes <footer> and <nav> blocks in phase 1. Use it for
// same-domain secondary pages whose chrome was already captured from the
// homepage.
func WithSkipFooterNav() Option {
	return func(o *options) {
		o.skipFooterNav = true
	}
}

// WithScorer replaces the phase 3 line scorer.
func WithScorer(s Scorer) Option {
	return func(o *options) {
		if s != nil {
			o.scorer = s
		}
	}
}

// WithThresholds replaces the pipeline tunables.
func WithThresholds(t Thresholds) Option {
	return func(o *options) {
		o.thresholds = t
	}
}

// ExtractCleanText runs the five-phase pipeline over html. It is a pure
// function of its input and never panics; an internal failure returns
// MinimalFallback instead.
func ExtractCleanText(html string, opts ...Option) (out string) {
	o := options{
		scorer:     DefaultScorer,
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("textclean: pipeline panicked, using minimal fallback",
				zap.String("panic", fmt.Sprint(r)),
			)
			out = MinimalFallback(html, o.thresholds.FallbackMaxChars)
		}
	}()

	s := normalizeStructure(html, o.skipFooterNav)
	s = mapSemanticRoles(s)
	s = filterContent(s, o.scorer, o.thresholds)
	s = reconstruct(s)
	s = optimize(s, o.thresholds.MaxChars)

	// Artifact repair can add a space here and there; never return more text
	// than came in.
	if len(s) > len(html) {
		s = truncateAtBoundary(s, len(html))
	}
	return s
}

var (
	fallbackBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>|<style\b[^>]*>.*?</style\s*>`)
	fallbackTagRe   = regexp.MustCompile(`<[^>]*>`)
)

// MinimalFallback strips script/style blocks and tags, collapses whitespace,
// and hard-caps the result at maxChars bytes (8,000 when maxChars <= 0).
func MinimalFallback(html string, maxChars int) (out string) {
	if maxChars <= 0 {
		maxChars = DefaultThresholds().FallbackMaxChars
	}
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	s := fallbackBlockRe.ReplaceAllString(html, " ")
	s = fallbackTagRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return hardCut(s, maxChars)
}
