package textclean

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	inlineSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{200B}]+`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
	sentenceCutRe = regexp.MustCompile(`[.!?]["')\]]?(?:\s|$)`)
)

// optimize is phase 5: drop any tag shape exposed by marker removal,
// collapse whitespace runs, trim lines, and cap length.
func optimize(s string, maxChars int) string {
	s = stripTags(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	return truncateAtBoundary(s, maxChars)
}

// truncateAtBoundary cuts s to at most maxBytes, preferring the last
// sentence end, then the last whitespace, then a rune-safe hard cut.
func truncateAtBoundary(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := hardCut(s, maxBytes)

	if locs := sentenceCutRe.FindAllStringIndex(cut, -1); len(locs) > 0 {
		end := locs[len(locs)-1][1]
		return strings.TrimSpace(cut[:end])
	}
	if i := strings.LastIndexAny(cut, " \n\t"); i > 0 {
		return strings.TrimSpace(cut[:i])
	}
	return cut
}

// hardCut returns the longest prefix of s no longer than maxBytes that ends
// on a rune boundary.
func hardCut(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := s[:maxBytes]
	for len(cut) > 0 && !utf8.RuneStart(s[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
