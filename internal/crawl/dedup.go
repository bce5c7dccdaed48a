package crawl

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultOverlap is the share of the longer line a shorter one must cover to
// count as a repeat of homepage chrome.
const DefaultOverlap = 0.8

var folder = cases.Fold()

func normalizeLine(s string) string {
	s = folder.String(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// lineSet holds the normalized non-empty lines of a reference text.
type lineSet struct {
	exact map[string]bool
	lines []string
}

func newLineSet(text string) *lineSet {
	ls := &lineSet{exact: make(map[string]bool)}
	for _, l := range strings.Split(text, "\n") {
		n := normalizeLine(l)
		if n == "" || ls.exact[n] {
			continue
		}
		ls.exact[n] = true
		ls.lines = append(ls.lines, n)
	}
	return ls
}

// repeats reports whether line duplicates a reference line exactly, or one
// contains the other and the shorter covers at least overlap of the longer.
func (ls *lineSet) repeats(line string, overlap float64) bool {
	n := normalizeLine(line)
	if n == "" {
		return false
	}
	if ls.exact[n] {
		return true
	}
	for _, ref := range ls.lines {
		short, long := n, ref
		if len(short) > len(long) {
			short, long = long, short
		}
		if float64(len(short)) >= overlap*float64(len(long)) && strings.Contains(long, short) {
			return true
		}
	}
	return false
}

// dropRepeatedLines removes lines of text that repeat homepage lines.
func dropRepeatedLines(text string, home *lineSet, overlap float64) (string, int) {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	dropped := 0
	for _, l := range lines {
		if home.repeats(l, overlap) {
			dropped++
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), dropped
}
