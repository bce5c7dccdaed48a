package textclean

import (
	"regexp"
	"strings"
)

var (
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)

	// Non-content blocks removed in every mode.
	nonContentBlockRes = blockPatterns("script", "style", "svg", "canvas", "iframe", "noscript", "template")

	// Chrome blocks removed only for same-domain secondary pages.
	chromeBlockRes = blockPatterns("footer", "nav")

	entityRe = regexp.MustCompile(`&(#[xX][0-9a-fA-F]{1,6}|#[0-9]{1,7}|[a-zA-Z][a-zA-Z0-9]{1,31});`)
)

// entities is the fixed set of decoded entities. Anything else that looks
// like an entity becomes a single space.
var entities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"#39":    "'",
	"#x27":   "'",
	"#34":    `"`,
	"nbsp":   " ",
	"#160":   " ",
	"ndash":  "-",
	"mdash":  "-",
	"#8211":  "-",
	"#8212":  "-",
	"hellip": "...",
	"#8230":  "...",
	"lsquo":  "'",
	"rsquo":  "'",
	"#8217":  "'",
	"ldquo":  `"`,
	"rdquo":  `"`,
	"#8220":  `"`,
	"#8221":  `"`,
	"copy":   "(c)",
	"reg":    "(R)",
	"trade":  "(TM)",
	"euro":   "€",
	"pound":  "£",
	"yen":    "¥",
	"cent":   "¢",
	"bull":   " ",
	"middot": " ",
}

func blockPatterns(tags ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		out = append(out, regexp.MustCompile(`(?is)<`+tag+`\b[^>]*>.*?</`+tag+`\s*>`))
	}
	return out
}

// normalizeStructure is phase 1: drop non-content blocks (and optionally
// footer/nav chrome), then decode entities.
func normalizeStructure(html string, skipFooterNav bool) string {
	html = commentRe.ReplaceAllString(html, " ")
	for _, re := range nonContentBlockRes {
		html = re.ReplaceAllString(html, " ")
	}
	if skipFooterNav {
		for _, re := range chromeBlockRes {
			html = re.ReplaceAllString(html, " ")
		}
	}
	return decodeEntities(html)
}

// decodeEntities decodes the fixed entity set in a single pass so that
// "&amp;lt;" yields "&lt;" rather than "<".
func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityRe.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := entities[name]; ok {
			return v
		}
		if v, ok := entities[strings.ToLower(name)]; ok {
			return v
		}
		return " "
	})
}
