package textclean

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	currencyDigitRe  = regexp.MustCompile(`([$€£¥])\s+(\d)`)
	wordCurrencyRe   = regexp.MustCompile(`([A-Za-z])([$€£¥]\d)`)
	digitPercentRe   = regexp.MustCompile(`(\d)\s+%`)
	spaceBeforePunct = regexp.MustCompile(`[ \t]+([,.;:!?])`)
	clausePunctGlue  = regexp.MustCompile(`([,;!?])([A-Za-z])`)
	sentenceGlueRe   = regexp.MustCompile(`([a-z]{2,})\.([A-Z][a-z])`)
	contractionRe    = regexp.MustCompile(`(\w)\s+(['’])\s*(s|t|re|ve|ll|d|m)\b`)
	shortGlueRe      = regexp.MustCompile(`\b([a-z]{2,3})([A-Z][a-z]{2,})`)
	wordPunctTrimmer = "\"'“”‘’()[]{}<>.,;:!?-–—*#|/\\"
	foldCaser        = cases.Fold()
)

// reconstruct is phase 4: drop markers, repair tag-stripping artifacts, then
// remove tokens repeated far more often than the document average.
func reconstruct(s string) string {
	s = stripMarkers(s)
	s = repairArtifacts(s)
	return dropExcessiveTokens(s)
}

func repairArtifacts(s string) string {
	s = currencyDigitRe.ReplaceAllString(s, "$1$2")
	s = wordCurrencyRe.ReplaceAllString(s, "$1 $2")
	s = digitPercentRe.ReplaceAllString(s, "$1%")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = clausePunctGlue.ReplaceAllString(s, "$1 $2")
	s = sentenceGlueRe.ReplaceAllString(s, "$1. $2")
	s = contractionRe.ReplaceAllString(s, "$1$2$3")
	s = shortGlueRe.ReplaceAllString(s, "$1 $2")
	return s
}

// normalizeWord folds a token for frequency counting. Tokens without a
// letter or digit normalize to "" and are never counted.
func normalizeWord(w string) string {
	w = strings.Trim(w, wordPunctTrimmer)
	if w == "" {
		return ""
	}
	w = foldCaser.String(norm.NFKC.String(w))
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return w
		}
	}
	return ""
}

// excessiveTokenThreshold is max(5, 3 × mean frequency, 5% of token count).
func excessiveTokenThreshold(counts map[string]int, total int) float64 {
	if len(counts) == 0 {
		return math.Inf(1)
	}
	mean := float64(total) / float64(len(counts))
	return math.Max(5, math.Max(3*mean, 0.05*float64(total)))
}

func dropExcessiveTokens(s string) string {
	lines := strings.Split(s, "\n")

	counts := make(map[string]int)
	total := 0
	for _, line := range lines {
		for _, w := range strings.Fields(line) {
			if n := normalizeWord(w); n != "" {
				counts[n]++
				total++
			}
		}
	}

	limit := excessiveTokenThreshold(counts, total)
	excessive := make(map[string]bool)
	for w, c := range counts {
		if float64(c) > limit {
			excessive[w] = true
		}
	}
	if len(excessive) == 0 {
		return s
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		kept := words[:0]
		for _, w := range words {
			if excessive[normalizeWord(w)] {
				continue
			}
			kept = append(kept, w)
		}
		out = append(out, strings.Join(kept, " "))
	}
	return strings.Join(out, "\n")
}
