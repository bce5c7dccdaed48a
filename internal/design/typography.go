package design

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/site-intel/internal/model"
)

const maxSizeScale = 12

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true, "fantasy": true,
	"system-ui": true, "ui-sans-serif": true, "ui-serif": true, "ui-monospace": true, "ui-rounded": true,
	"-apple-system": true, "blinkmacsystemfont": true, "inherit": true, "initial": true,
	"unset": true, "revert": true, "emoji": true, "math": true, "fangsong": true,
	"apple color emoji": true, "segoe ui emoji": true, "segoe ui symbol": true, "noto color emoji": true,
}

var (
	fontShorthandRe = regexp.MustCompile(`(?i)\d*\.?\d+(?:px|rem|em|pt|%)(?:\s*/\s*\S+)?\s+(.+)$`)
	sizeRe          = regexp.MustCompile(`^(\d*\.?\d+)(px|rem|em|pt)$`)
	weightDigitsRe  = regexp.MustCompile(`\b([1-9]00)\b`)
	typekitKitRe    = regexp.MustCompile(`typekit\.net/([a-z0-9]+)\.(?:css|js)`)
)

// parseFamilies splits a font-family list into concrete family names.
func parseFamilies(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		f := strings.Trim(strings.TrimSpace(part), `"'`)
		f = strings.Join(strings.Fields(f), " ")
		if f == "" || strings.HasPrefix(f, "var(") || genericFamilies[strings.ToLower(f)] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func normalizeWeight(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "normal":
		return "400"
	case "bold":
		return "700"
	}
	if weightDigitsRe.MatchString(v) && len(v) == 3 {
		return v
	}
	return ""
}

// sizePx approximates a font-size in pixels for ordering.
func sizePx(v string) (float64, bool) {
	m := sizeRe.FindStringSubmatch(strings.ToLower(v))
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	switch m[2] {
	case "rem", "em":
		n *= 16
	case "pt":
		n *= 4.0 / 3
	}
	return n, true
}

// googleFamilies reads family names and weights from a Google Fonts URL,
// css2 ("family=Inter:wght@400;700") or legacy ("family=Inter:400,700|Lato").
func googleFamilies(href string) (families, weights []string) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, nil
	}
	// url.Query drops pairs containing ';', which css2 weight lists use.
	for _, pair := range strings.Split(u.RawQuery, "&") {
		raw, ok := strings.CutPrefix(pair, "family=")
		if !ok {
			continue
		}
		fam, err := url.QueryUnescape(raw)
		if err != nil {
			continue
		}
		for _, spec := range strings.Split(fam, "|") {
			name, axes, _ := strings.Cut(spec, ":")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			families = append(families, name)
			for _, m := range weightDigitsRe.FindAllStringSubmatch(axes, -1) {
				weights = append(weights, m[1])
			}
		}
	}
	return families, weights
}

func (e *Extractor) typography(doc *goquery.Document, src *sources) model.Typography {
	fams := newRank()
	weights := make(map[string]bool)
	sizes := make(map[string]float64)
	var webFonts []string
	seenWeb := make(map[string]bool)
	addWeb := func(s string) {
		if !seenWeb[s] {
			seenWeb[s] = true
			webFonts = append(webFonts, s)
		}
	}

	for _, d := range src.decls {
		switch {
		case d.prop == "font-family":
			for _, f := range parseFamilies(d.value) {
				fams.add(f, 1)
			}
		case d.prop == "font":
			if m := fontShorthandRe.FindStringSubmatch(d.value); m != nil {
				for _, f := range parseFamilies(m[1]) {
					fams.add(f, 1)
				}
			}
		case strings.HasPrefix(d.prop, "--") && strings.Contains(d.prop, "font") &&
			!strings.Contains(d.prop, "size") && !strings.Contains(d.prop, "weight"):
			for _, f := range parseFamilies(d.value) {
				fams.add(f, 1)
			}
		case d.prop == "font-weight":
			if w := normalizeWeight(d.value); w != "" {
				weights[w] = true
			}
		case d.prop == "font-size":
			if px, ok := sizePx(d.value); ok {
				sizes[strings.ToLower(d.value)] = px
			}
		}
	}

	css := cssCommentRe.ReplaceAllString(src.css.String(), " ")
	for _, m := range fontFaceRe.FindAllStringSubmatch(css, -1) {
		for _, d := range parseDeclarations(m[1]) {
			if d.prop == "font-family" {
				for _, f := range parseFamilies(d.value) {
					addWeb("@font-face: " + f)
				}
			}
		}
	}

	var fontLinks []string
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); isFontService(href) {
			fontLinks = append(fontLinks, href)
		}
	})
	for _, m := range importRe.FindAllStringSubmatch(css, -1) {
		if isFontService(m[1]) {
			fontLinks = append(fontLinks, m[1])
		}
	}
	for _, href := range fontLinks {
		lower := strings.ToLower(href)
		switch {
		case strings.Contains(lower, "fonts.googleapis.com"), strings.Contains(lower, "fonts.bunny.net"):
			gf, gw := googleFamilies(href)
			service := "Google Fonts"
			if strings.Contains(lower, "bunny") {
				service = "Bunny Fonts"
			}
			for _, f := range gf {
				addWeb(service + ": " + f)
				fams.add(f, 1)
			}
			for _, w := range gw {
				weights[w] = true
			}
		case strings.Contains(lower, "typekit.net"):
			kit := "kit"
			if m := typekitKitRe.FindStringSubmatch(lower); m != nil {
				kit = m[1]
			}
			addWeb("Adobe Fonts: " + kit)
		}
	}

	all := fams.top(0)
	t := model.Typography{
		PrimaryFont:   model.NotFound,
		SecondaryFont: model.NotFound,
		AllFonts:      all,
		WebFonts:      webFonts,
		FontWeights:   sortedKeys(weights, func(a, b string) int { return strings.Compare(a, b) }),
		SizeScale:     sizeScale(sizes),
	}
	if len(all) > 0 {
		t.PrimaryFont = all[0]
	}
	if len(all) > 1 {
		t.SecondaryFont = all[1]
	}
	if t.WebFonts == nil {
		t.WebFonts = []string{}
	}
	return t
}

func sizeScale(sizes map[string]float64) []string {
	keys := sortedKeys(sizes, func(a, b string) int {
		switch {
		case sizes[a] < sizes[b]:
			return -1
		case sizes[a] > sizes[b]:
			return 1
		}
		return strings.Compare(a, b)
	})
	if len(keys) > maxSizeScale {
		keys = keys[:maxSizeScale]
	}
	return keys
}

func sortedKeys[V any](m map[string]V, cmp func(a, b string) int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp)
	return keys
}
