package textclean

import (
	"regexp"
	"strings"
)

// Sentinel markers carry structural roles from phase 2 into phases 3 and 4.
// They use code points that never appear in tag syntax so the tag stripper
// leaves them alone.
const (
	markHeading  = "⟪H⟫"
	markSection  = "⟪S⟫"
	markNav      = "⟪N⟫"
	markFooter   = "⟪F⟫"
	markList     = "⟪L⟫"
	markTable    = "⟪T⟫"
	markEmphasis = "⟪E⟫"
)

var (
	markerRe = regexp.MustCompile(`⟪[A-Z]⟫`)

	headingOpenRe  = regexp.MustCompile(`(?i)<h[1-6]\b[^>]*>`)
	headingCloseRe = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
	sectionRe      = regexp.MustCompile(`(?i)</?(?:section|article|main|header|aside)\b[^>]*>`)
	navOpenRe      = regexp.MustCompile(`(?i)<nav\b[^>]*>`)
	footerOpenRe   = regexp.MustCompile(`(?i)<footer\b[^>]*>`)
	chromeCloseRe  = regexp.MustCompile(`(?i)</(?:nav|footer)\s*>`)
	listItemRe     = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	listRe         = regexp.MustCompile(`(?i)</?(?:ul|ol|dl)\b[^>]*>`)
	tableRowRe     = regexp.MustCompile(`(?i)<tr\b[^>]*>`)
	tableCellRe    = regexp.MustCompile(`(?i)</?(?:td|th)\b[^>]*>`)
	tableRe        = regexp.MustCompile(`(?i)</?(?:table|thead|tbody|tfoot)\b[^>]*>`)
	emphasisRe     = regexp.MustCompile(`(?i)<(?:strong|b|em|i|mark)\b[^>]*>`)
	blockRe        = regexp.MustCompile(`(?i)</?(?:p|div|br|hr|dd|dt|li|tr|blockquote|figcaption|address|form|pre)\b[^>]*/?>`)

	// tagRe only matches tag-shaped text ("<a ...>", "</p>", "<!DOCTYPE>") so
	// prose such as "5 < 10 and 20 > 3" survives.
	tagRe = regexp.MustCompile(`<[a-zA-Z!/?][^<>]*>`)
)

// mapSemanticRoles is phase 2: replace structural tags with sentinel markers
// and line breaks, then strip every remaining tag to a space.
func mapSemanticRoles(s string) string {
	s = headingOpenRe.ReplaceAllString(s, "\n"+markHeading+" ")
	s = headingCloseRe.ReplaceAllString(s, "\n")
	s = navOpenRe.ReplaceAllString(s, "\n"+markNav+" ")
	s = footerOpenRe.ReplaceAllString(s, "\n"+markFooter+" ")
	s = chromeCloseRe.ReplaceAllString(s, "\n")
	s = sectionRe.ReplaceAllString(s, "\n"+markSection+"\n")
	s = listItemRe.ReplaceAllString(s, "\n"+markList+" ")
	s = listRe.ReplaceAllString(s, "\n")
	s = tableRowRe.ReplaceAllString(s, "\n"+markTable+" ")
	s = tableCellRe.ReplaceAllString(s, " ")
	s = tableRe.ReplaceAllString(s, "\n")
	s = emphasisRe.ReplaceAllString(s, markEmphasis)
	s = blockRe.ReplaceAllString(s, "\n")
	return stripTags(s)
}

// stripTags replaces tag-shaped substrings with a space until none remain.
// Removing one tag can expose another ("<<b>x>"), hence the loop. Every pass
// shortens s, so it terminates.
func stripTags(s string) string {
	for tagRe.MatchString(s) {
		s = tagRe.ReplaceAllString(s, " ")
	}
	return s
}

// stripMarkers removes every sentinel marker.
func stripMarkers(s string) string {
	if !strings.Contains(s, "⟪") {
		return s
	}
	return markerRe.ReplaceAllString(s, "")
}

// lineRole returns the leading structural marker of a line, if any.
func lineRole(line string) string {
	line = strings.TrimSpace(line)
	for _, m := range []string{markHeading, markNav, markFooter, markList, markTable, markSection} {
		if strings.HasPrefix(line, m) {
			return m
		}
	}
	return ""
}
