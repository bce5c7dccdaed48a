package textclean

import (
	"strings"

	"github.com/sells-group/site-intel/internal/model"
)

// Thresholds holds the tunable constants of the pipeline. The information
// threshold constants are empirical; change them only with evidence.
type Thresholds struct {
	// BaseInformation is the starting information threshold.
	BaseInformation float64
	// MinInformation is the floor the threshold never drops below.
	MinInformation float64
	// Step is subtracted once per triggered adjustment.
	Step float64
	// HighDiversity is the lexical diversity above which the threshold drops.
	HighDiversity float64
	// LongLineChars is the mean line length above which the threshold drops.
	LongLineChars float64
	// ShortDocLines and ShortDocWords define a short document; either one
	// being undershot drops the threshold.
	ShortDocLines int
	ShortDocWords int
	// MaxChars caps the final clean text.
	MaxChars int
	// FallbackMaxChars caps the minimal fallback output.
	FallbackMaxChars int
}

// DefaultThresholds returns the production tunables.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BaseInformation:  0.3,
		MinInformation:   0.1,
		Step:             0.1,
		HighDiversity:    0.7,
		LongLineChars:    80,
		ShortDocLines:    10,
		ShortDocWords:    100,
		MaxChars:         15000,
		FallbackMaxChars: 8000,
	}
}

// ComputeStatistics derives the document statistics of the given lines and
// the adaptive information threshold. Marker-only and blank lines are ignored.
func ComputeStatistics(lines []string, th Thresholds) model.DocumentStatistics {
	var (
		stats     model.DocumentStatistics
		charTotal int
		unique    = make(map[string]struct{})
	)
	for _, line := range lines {
		text := strings.TrimSpace(stripMarkers(line))
		if text == "" {
			continue
		}
		words := strings.Fields(text)
		stats.LineCount++
		stats.WordCount += len(words)
		charTotal += len(text)
		for _, w := range words {
			unique[strings.ToLower(w)] = struct{}{}
		}
	}

	if stats.LineCount > 0 {
		stats.AvgWordsPerLine = float64(stats.WordCount) / float64(stats.LineCount)
		stats.AvgCharsPerLine = float64(charTotal) / float64(stats.LineCount)
	}
	if stats.WordCount > 0 {
		stats.LexicalDiversity = float64(len(unique)) / float64(stats.WordCount)
	}
	stats.InformationThreshold = informationThreshold(stats, th)
	return stats
}

func informationThreshold(stats model.DocumentStatistics, th Thresholds) float64 {
	t := th.BaseInformation
	if stats.LexicalDiversity > th.HighDiversity {
		t -= th.Step
	}
	if stats.AvgCharsPerLine > th.LongLineChars {
		t -= th.Step
	}
	if stats.LineCount < th.ShortDocLines || stats.WordCount < th.ShortDocWords {
		t -= th.Step
	}
	if t < th.MinInformation {
		t = th.MinInformation
	}
	return t
}

// filterContent is phase 3: keep lines whose information score is above the
// document's adaptive threshold, in original order.
func filterContent(s string, scorer Scorer, th Thresholds) string {
	lines := strings.Split(s, "\n")
	stats := ComputeStatistics(lines, th)

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(stripMarkers(line)) == "" {
			continue
		}
		if scorer.Score(line, stats) > stats.InformationThreshold {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
