// Package links pulls, resolves, deduplicates, and loosely categorizes
// hyperlinks from raw HTML.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sells-group/site-intel/internal/model"
)

var (
	anchorRe    = regexp.MustCompile(`(?is)<a\b([^>]*)>(.*?)</a\s*>`)
	hrefRe      = regexp.MustCompile(`(?is)\bhref\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	innerTagRe  = regexp.MustCompile(`<[^>]*>`)
	titleAttrRe = regexp.MustCompile(`(?is)\b(?:aria-label|title)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// nonCrawlableSchemes have no fetchable content.
var nonCrawlableSchemes = []string{"javascript:", "mailto:", "tel:", "data:", "sms:", "about:"}

// ExtractAllLinks scans anchor tags in html and returns one ExtractedLink per
// distinct absolute URL (case-insensitive). Links with empty text, malformed
// or non-crawlable hrefs, or a fragment are dropped. Categories are
// informational and never filter.
func ExtractAllLinks(html, baseURL string) []model.ExtractedLink {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Host == "" {
		return nil
	}
	baseHost := NormalizeHost(base.Hostname())

	seen := make(map[string]bool)
	var out []model.ExtractedLink

	for _, m := range anchorRe.FindAllStringSubmatch(html, -1) {
		attrs, inner := m[1], m[2]

		text := linkText(inner, attrs)
		if text == "" {
			continue
		}

		href := attrValue(hrefRe, attrs)
		abs, ok := resolve(base, href)
		if !ok {
			continue
		}

		key := strings.ToLower(abs.String())
		if seen[key] {
			continue
		}
		seen[key] = true

		host := NormalizeHost(abs.Hostname())
		out = append(out, model.ExtractedLink{
			URL:        abs.String(),
			Text:       text,
			IsExternal: host != baseHost,
			Domain:     host,
			Category:   Categorize(abs.Path),
		})
	}
	return out
}

// resolve turns href into an absolute http(s) URL. Fragment-bearing URLs
// are rejected: they point at a section of a page, not new content.
func resolve(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	lower := strings.ToLower(href)
	for _, scheme := range nonCrawlableSchemes {
		if strings.HasPrefix(lower, scheme) {
			return nil, false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return nil, false
	}
	if abs.Host == "" {
		return nil, false
	}
	if abs.Fragment != "" || strings.HasSuffix(href, "#") {
		return nil, false
	}
	if abs.Path == "" {
		abs.Path = "/"
	}
	return abs, true
}

func linkText(inner, attrs string) string {
	text := innerTagRe.ReplaceAllString(inner, " ")
	text = decodeBasicEntities(text)
	text = strings.Join(strings.Fields(text), " ")
	if text != "" {
		return text
	}
	// Icon-only links still describe themselves through accessible labels.
	return strings.Join(strings.Fields(attrValue(titleAttrRe, attrs)), " ")
}

func attrValue(re *regexp.Regexp, attrs string) string {
	m := re.FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

var basicEntities = strings.NewReplacer(
	"&amp;", "&",
	"&nbsp;", " ",
	"&quot;", `"`,
	"&#39;", "'",
	"&rsquo;", "'",
	"&lt;", "<",
	"&gt;", ">",
)

func decodeBasicEntities(s string) string {
	return basicEntities.Replace(s)
}

// NormalizeHost lowercases a hostname and strips a leading "www.".
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return strings.TrimPrefix(host, "www.")
}

// Partition splits links into internal and external groups, preserving order.
func Partition(all []model.ExtractedLink) (internal, external []model.ExtractedLink) {
	for _, l := range all {
		if l.IsExternal {
			external = append(external, l)
		} else {
			internal = append(internal, l)
		}
	}
	return internal, external
}
