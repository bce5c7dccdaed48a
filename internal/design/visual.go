package design

import (
	"regexp"
	"strings"

	"github.com/sells-group/site-intel/internal/model"
)

const (
	maxRadii   = 8
	maxShadows = 5
	maxSpacing = 10
)

var (
	spacingTokenRe = regexp.MustCompile(`^-?\d*\.?\d+(px|rem|em)$`)
	zeroRe         = regexp.MustCompile(`^-?0*\.?0+(px|rem|em)?$`)
)

var (
	flexClasses = map[string]bool{"flex": true, "inline-flex": true, "d-flex": true, "d-inline-flex": true}
	gridClasses = map[string]bool{"grid": true, "inline-grid": true, "d-grid": true}
)

func isSpacingProp(p string) bool {
	return strings.HasPrefix(p, "margin") || strings.HasPrefix(p, "padding") ||
		p == "gap" || p == "row-gap" || p == "column-gap"
}

func (e *Extractor) visual(src *sources) model.VisualElements {
	radii, shadows, spacing := newRank(), newRank(), newRank()
	var v model.VisualElements

	for _, d := range src.decls {
		val := strings.ToLower(strings.Join(strings.Fields(d.value), " "))
		switch {
		case d.prop == "border-radius" || (strings.HasPrefix(d.prop, "border-") && strings.HasSuffix(d.prop, "-radius")):
			if !zeroRe.MatchString(val) && !strings.HasPrefix(val, "var(") && val != "inherit" {
				radii.add(val, 1)
			}
		case d.prop == "box-shadow":
			if val != "none" && !strings.HasPrefix(val, "var(") && val != "inherit" {
				shadows.add(val, 1)
			}
		case isSpacingProp(d.prop):
			for _, tok := range strings.Fields(val) {
				if spacingTokenRe.MatchString(tok) && !zeroRe.MatchString(tok) {
					spacing.add(tok, 1)
				}
			}
		case d.prop == "display":
			switch val {
			case "flex", "inline-flex":
				v.UsesFlexbox = true
			case "grid", "inline-grid":
				v.UsesGrid = true
			}
		}
	}

	for _, c := range src.classes {
		if i := strings.LastIndexByte(c, ':'); i >= 0 {
			c = c[i+1:]
		}
		if flexClasses[c] {
			v.UsesFlexbox = true
		}
		if gridClasses[c] {
			v.UsesGrid = true
		}
	}

	v.BorderRadius = radii.top(maxRadii)
	v.Shadows = shadows.top(maxShadows)
	v.Spacing = spacing.top(maxSpacing)
	return v
}
