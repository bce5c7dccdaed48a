package textclean

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sells-group/site-intel/internal/model"
)

// Scorer rates how much business-relevant information a line carries, from
// 0 (none) to 1. The line may still carry its phase 2 role marker.
type Scorer interface {
	Score(line string, stats model.DocumentStatistics) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(line string, stats model.DocumentStatistics) float64

// Score implements Scorer.
func (f ScorerFunc) Score(line string, stats model.DocumentStatistics) float64 {
	return f(line, stats)
}

var (
	sentenceEndRe = regexp.MustCompile(`[.!?](?:\s|$)`)
	clauseRe      = regexp.MustCompile(`[,;:]`)
	quoteRe       = regexp.MustCompile(`["“”«»]`)
	digitRe       = regexp.MustCompile(`\d`)
	currencyRe    = regexp.MustCompile(`[$€£¥¢]`)
	percentRe     = regexp.MustCompile(`\d\s?%`)
)

// DefaultScorer is the additive length/punctuation/repetition scorer.
var DefaultScorer Scorer = ScorerFunc(informationScore)

func informationScore(line string, stats model.DocumentStatistics) float64 {
	role := lineRole(line)
	text := strings.TrimSpace(stripMarkers(line))
	if text == "" || !hasAlphanumeric(text) {
		return 0
	}

	words := strings.Fields(text)
	wc := len(words)
	cc := len(text)

	var score float64

	switch {
	case wc >= 12:
		score += 0.35
	case wc >= 6:
		score += 0.25
	case wc >= 3:
		score += 0.1
	}
	switch {
	case cc >= 100:
		score += 0.25
	case cc >= 50:
		score += 0.2
	case cc >= 20:
		score += 0.1
	}
	if stats.AvgWordsPerLine > 0 && float64(wc) >= stats.AvgWordsPerLine {
		score += 0.05
	}

	if sentenceEndRe.MatchString(text) {
		score += 0.2
	}
	if clauseRe.MatchString(text) {
		score += 0.1
	}
	if quoteRe.MatchString(text) {
		score += 0.05
	}
	if digitRe.MatchString(text) {
		score += 0.1
	}
	if currencyRe.MatchString(text) {
		score += 0.1
	}
	if percentRe.MatchString(text) {
		score += 0.1
	}

	switch role {
	case markHeading:
		score += 0.25
	case markNav, markFooter:
		score -= 0.3
	}

	if wc == 1 {
		score -= 0.3
	}
	if wc > 3 && tokenUniqueness(words) < 0.5 {
		score -= 0.3
	}

	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func tokenUniqueness(words []string) float64 {
	if len(words) == 0 {
		return 1
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}
