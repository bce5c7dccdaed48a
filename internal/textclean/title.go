package textclean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractTitle returns the page title, preferring <title> and falling back
// to og:title. Returns "" when neither is present or the HTML is unreadable.
func ExtractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return strings.Join(strings.Fields(title), " ")
	}
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

// ExtractSiteName returns the site's self-declared name from og:site_name or
// application-name metadata, or "".
func ExtractSiteName(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	for _, sel := range []string{
		"meta[property='og:site_name']",
		"meta[name='application-name']",
	} {
		if v, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
