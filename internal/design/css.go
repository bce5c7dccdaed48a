package design

import (
	"context"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// decl is one CSS declaration.
type decl struct {
	prop  string
	value string
}

var (
	cssCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	declRe       = regexp.MustCompile(`(?i)(--[a-z0-9_-]+|[a-z][a-z-]*)\s*:\s*([^;{}]+)`)
	fontFaceRe   = regexp.MustCompile(`(?is)@font-face\s*\{([^}]*)\}`)
	importRe     = regexp.MustCompile(`(?i)@import\s+(?:url\()?\s*["']?([^"')\s;]+)`)
	importantRe  = regexp.MustCompile(`(?i)\s*!important\s*$`)
)

// sources is everything design extraction reads from one page.
type sources struct {
	css     strings.Builder // <style> blocks and fetched stylesheets
	inline  []string        // style="" attributes
	classes []string        // every class token on the page
	decls   []decl

	cssFound  int
	cssLoaded int
}

func (s *sources) parse() {
	text := cssCommentRe.ReplaceAllString(s.css.String(), " ")
	s.decls = parseDeclarations(text)
	for _, style := range s.inline {
		s.decls = append(s.decls, parseDeclarations(style)...)
	}
}

func parseDeclarations(css string) []decl {
	var out []decl
	for _, m := range declRe.FindAllStringSubmatch(css, -1) {
		v := strings.TrimSpace(importantRe.ReplaceAllString(m[2], ""))
		if v == "" {
			continue
		}
		out = append(out, decl{prop: strings.ToLower(m[1]), value: v})
	}
	return out
}

// collect gathers inline styles, class names, <style> text and up to maxCSS
// linked stylesheets.
func (e *Extractor) collect(ctx context.Context, doc *goquery.Document, base *url.URL, errs *[]string) *sources {
	src := &sources{}

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		src.css.WriteString(s.Text())
		src.css.WriteByte('\n')
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("style"); ok {
			src.inline = append(src.inline, v)
		}
	})
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("class"); ok {
			src.classes = append(src.classes, strings.Fields(v)...)
		}
	})

	var hrefs []string
	seen := make(map[string]bool)
	doc.Find("link[rel~='stylesheet'][href], link[as='style'][href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs := resolveRef(base, href)
		if abs == "" || seen[abs] || isFontService(abs) {
			return
		}
		seen[abs] = true
		hrefs = append(hrefs, abs)
	})
	src.cssFound = len(hrefs)

	if e.fetcher == nil {
		return src
	}
	for _, href := range hrefs {
		if src.cssLoaded >= e.maxCSS {
			break
		}
		asset, err := e.fetcher.Download(ctx, href)
		if err != nil {
			zap.L().Debug("design: stylesheet fetch failed", zap.String("url", href), zap.Error(err))
			*errs = append(*errs, "css "+href+": "+err.Error())
			continue
		}
		src.css.Write(asset.Body)
		src.css.WriteByte('\n')
		src.cssLoaded++
	}
	return src
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "#") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

func isFontService(u string) bool {
	lower := strings.ToLower(u)
	for _, host := range []string{"fonts.googleapis.com", "use.typekit.net", "p.typekit.net", "fonts.bunny.net"} {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// rank orders keys by descending count, ties by first appearance.
type rank struct {
	counts map[string]int
	order  []string
}

func newRank() *rank { return &rank{counts: make(map[string]int)} }

func (r *rank) add(k string, n int) {
	if k == "" {
		return
	}
	if _, ok := r.counts[k]; !ok {
		r.order = append(r.order, k)
	}
	r.counts[k] += n
}

func (r *rank) top(n int) []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	pos := make(map[string]int, len(out))
	for i, k := range r.order {
		pos[k] = i
	}
	slices.SortStableFunc(out, func(a, b string) int {
		if r.counts[a] != r.counts[b] {
			return r.counts[b] - r.counts[a]
		}
		return pos[a] - pos[b]
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
