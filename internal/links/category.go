package links

import (
	"regexp"
	"strings"

	"github.com/sells-group/site-intel/internal/model"
)

type categoryRule struct {
	category model.LinkCategory
	pattern  *regexp.Regexp
}

// categoryRules are checked in order; the first match wins. They look at
// path segments only, so "/blog/about-our-team" is content, not about.
var categoryRules = []categoryRule{
	{model.LinkCategoryLegal, regexp.MustCompile(`(?i)^/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:legal|privacy|terms|cookies?|gdpr|disclaimer|imprint|impressum|accessibility)(?:[-_/.]|$)`)},
	{model.LinkCategoryAbout, regexp.MustCompile(`(?i)^/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:about|company|who-we-are|our-story|team|leadership|mission|history|careers|jobs)(?:[-_/.]|$)`)},
	{model.LinkCategoryPricing, regexp.MustCompile(`(?i)^/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:pricing|prices|plans|buy|subscribe|quote)(?:[-_/.]|$)`)},
	{model.LinkCategoryProduct, regexp.MustCompile(`(?i)^/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:products?|services?|solutions?|features?|platform|what-we-do|industries|use-cases)(?:[-_/.]|$)`)},
	{model.LinkCategorySupport, regexp.MustCompile(`(?i)^/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:support|help|faqs?|contact|docs?|documentation|kb|knowledge-base)(?:[-_/.]|$)`)},
	{model.LinkCategoryContent, regexp.MustCompile(`(?i)^/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:blog|news|press|articles?|resources|insights|case-studies|customers|stories|webinars?|events)(?:[-_/.]|$)`)},
}

// Categorize assigns a coarse category to a URL path. Unmatched paths are
// "other".
func Categorize(path string) model.LinkCategory {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for _, r := range categoryRules {
		if r.pattern.MatchString(path) {
			return r.category
		}
	}
	return model.LinkCategoryOther
}
