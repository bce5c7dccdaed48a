package design

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sells-group/site-intel/internal/model"
)

const (
	maxPaletteColors = 20
	maxRoleColors    = 5
)

type colorRole int

const (
	roleNone colorRole = iota
	rolePrimary
	roleSecondary
	roleAccent
	roleText
	roleBackground
)

var (
	urlFuncRe = regexp.MustCompile(`(?i)url\([^)]*\)`)
	hexRe     = regexp.MustCompile(`#([0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{3,4})\b`)
	rgbRe     = regexp.MustCompile(`(?i)rgba?\(\s*([\d.]+%?)[\s,]+([\d.]+%?)[\s,]+([\d.]+%?)`)
	hslRe     = regexp.MustCompile(`(?i)hsla?\(\s*([\d.]+)(?:deg)?[\s,]+([\d.]+)%[\s,]+([\d.]+)%`)
	wordRe    = regexp.MustCompile(`[a-zA-Z]+`)
	utilityRe = regexp.MustCompile(`^(bg|text|border|ring|from|via|to|fill|stroke)-([a-z]+)(?:-(\d{2,3}))?$`)
)

var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"blue": "#0000ff", "yellow": "#ffff00", "orange": "#ffa500", "purple": "#800080",
	"gray": "#808080", "grey": "#808080", "navy": "#000080", "teal": "#008080",
	"maroon": "#800000", "olive": "#808000", "silver": "#c0c0c0", "aqua": "#00ffff",
	"cyan": "#00ffff", "fuchsia": "#ff00ff", "magenta": "#ff00ff", "lime": "#00ff00",
	"pink": "#ffc0cb", "brown": "#a52a2a", "gold": "#ffd700", "indigo": "#4b0082",
	"crimson": "#dc143c", "coral": "#ff7f50", "tomato": "#ff6347", "whitesmoke": "#f5f5f5",
}

// tailwind holds the common brand shades of the default Tailwind palette.
var tailwind = map[string]map[string]string{
	"slate":   {"50": "#f8fafc", "100": "#f1f5f9", "500": "#64748b", "600": "#475569", "700": "#334155", "900": "#0f172a"},
	"gray":    {"50": "#f9fafb", "100": "#f3f4f6", "500": "#6b7280", "600": "#4b5563", "700": "#374151", "900": "#111827"},
	"red":     {"500": "#ef4444", "600": "#dc2626", "700": "#b91c1c"},
	"orange":  {"500": "#f97316", "600": "#ea580c", "700": "#c2410c"},
	"amber":   {"500": "#f59e0b", "600": "#d97706", "700": "#b45309"},
	"yellow":  {"500": "#eab308", "600": "#ca8a04", "700": "#a16207"},
	"green":   {"500": "#22c55e", "600": "#16a34a", "700": "#15803d"},
	"emerald": {"500": "#10b981", "600": "#059669", "700": "#047857"},
	"teal":    {"500": "#14b8a6", "600": "#0d9488", "700": "#0f766e"},
	"cyan":    {"500": "#06b6d4", "600": "#0891b2", "700": "#0e7490"},
	"sky":     {"500": "#0ea5e9", "600": "#0284c7", "700": "#0369a1"},
	"blue":    {"500": "#3b82f6", "600": "#2563eb", "700": "#1d4ed8"},
	"indigo":  {"500": "#6366f1", "600": "#4f46e5", "700": "#4338ca"},
	"violet":  {"500": "#8b5cf6", "600": "#7c3aed", "700": "#6d28d9"},
	"purple":  {"500": "#a855f7", "600": "#9333ea", "700": "#7e22ce"},
	"pink":    {"500": "#ec4899", "600": "#db2777", "700": "#be185d"},
	"rose":    {"500": "#f43f5e", "600": "#e11d48", "700": "#be123c"},
}

// colorProperty reports whether prop carries colors and with which role.
func colorProperty(prop string) (colorRole, bool) {
	if strings.HasPrefix(prop, "--") {
		if strings.Contains(prop, "font") {
			return roleNone, false
		}
		return varRole(prop), true
	}
	switch {
	case prop == "color":
		return roleText, true
	case prop == "background-image":
		return rolePrimary, true
	case strings.HasPrefix(prop, "background"):
		return roleBackground, true
	case strings.HasPrefix(prop, "border"), strings.HasPrefix(prop, "outline"),
		prop == "fill", prop == "stroke", prop == "accent-color", prop == "caret-color",
		prop == "text-decoration-color":
		return roleAccent, true
	}
	return roleNone, false
}

func varRole(name string) colorRole {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "primary"), strings.Contains(n, "brand"):
		return rolePrimary
	case strings.Contains(n, "secondary"):
		return roleSecondary
	case strings.Contains(n, "accent"), strings.Contains(n, "highlight"):
		return roleAccent
	case strings.Contains(n, "background"), strings.Contains(n, "-bg"), strings.Contains(n, "surface"):
		return roleBackground
	case strings.Contains(n, "text"), strings.Contains(n, "foreground"), strings.Contains(n, "-fg"):
		return roleText
	}
	return roleNone
}

// colorsIn returns every color in a CSS value as lowercase #rrggbb.
func colorsIn(value string) []string {
	v := urlFuncRe.ReplaceAllString(value, " ")
	var out []string
	for _, m := range hexRe.FindAllStringSubmatch(v, -1) {
		if c, ok := normalizeHex(m[1]); ok {
			out = append(out, c)
		}
	}
	for _, m := range rgbRe.FindAllStringSubmatch(v, -1) {
		r, g, b := channel(m[1]), channel(m[2]), channel(m[3])
		out = append(out, toHex(r, g, b))
	}
	for _, m := range hslRe.FindAllStringSubmatch(v, -1) {
		h, _ := strconv.ParseFloat(m[1], 64)
		s, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		out = append(out, toHex(hslToRGB(h, s/100, l/100)))
	}
	for _, w := range wordRe.FindAllString(v, -1) {
		if c, ok := namedColors[strings.ToLower(w)]; ok {
			out = append(out, c)
		}
	}
	return out
}

// NormalizeColor converts any supported CSS color notation to #rrggbb.
func NormalizeColor(s string) (string, bool) {
	cs := colorsIn(strings.TrimSpace(s))
	if len(cs) == 0 {
		return "", false
	}
	return cs[0], true
}

func normalizeHex(h string) (string, bool) {
	h = strings.ToLower(h)
	switch len(h) {
	case 3, 4:
		return "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}), true
	case 6, 8:
		return "#" + h[:6], true
	}
	return "", false
}

func channel(s string) int {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, _ := strconv.ParseFloat(p, 64)
		return clampByte(f * 255 / 100)
	}
	f, _ := strconv.ParseFloat(s, 64)
	return clampByte(f)
}

func clampByte(f float64) int {
	return int(math.Round(math.Max(0, math.Min(255, f))))
}

func toHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hslToRGB(h, s, l float64) (int, int, int) {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s = math.Max(0, math.Min(1, s))
	l = math.Max(0, math.Min(1, l))
	if s == 0 {
		v := clampByte(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hue := func(t float64) float64 {
		switch {
		case t < 0:
			t++
		case t > 1:
			t--
		}
		switch {
		case t < 1.0/6:
			return p + (q-p)*6*t
		case t < 0.5:
			return q
		case t < 2.0/3:
			return p + (q-p)*(2.0/3-t)*6
		}
		return p
	}
	return clampByte(hue(h+1.0/3) * 255), clampByte(hue(h) * 255), clampByte(hue(h-1.0/3) * 255)
}

// utilityColor maps a utility class such as "bg-blue-600" or
// "md:hover:text-white/80" to its color and role.
func utilityColor(class string) (string, colorRole, bool) {
	if i := strings.LastIndexByte(class, ':'); i >= 0 {
		class = class[i+1:]
	}
	if i := strings.IndexByte(class, '/'); i >= 0 {
		class = class[:i]
	}
	m := utilityRe.FindStringSubmatch(class)
	if m == nil {
		return "", roleNone, false
	}

	var hex string
	switch {
	case m[3] == "" && m[2] == "white":
		hex = "#ffffff"
	case m[3] == "" && m[2] == "black":
		hex = "#000000"
	case m[3] != "":
		hex = tailwind[m[2]][m[3]]
	}
	if hex == "" {
		return "", roleNone, false
	}

	role := roleAccent
	switch m[1] {
	case "bg":
		role = roleBackground
	case "text":
		role = roleText
	case "from", "via", "to":
		role = rolePrimary
	}
	return hex, role, true
}

func isNeutral(hex string) bool {
	if len(hex) != 7 {
		return true
	}
	var c [3]int
	for i := range c {
		v, _ := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		c[i] = int(v)
	}
	return slices.Max(c[:])-slices.Min(c[:]) < 24
}

// palette tallies colors with role hints.
type palette struct {
	all   *rank
	roles map[colorRole]*rank
}

func newPalette() *palette {
	return &palette{all: newRank(), roles: make(map[colorRole]*rank)}
}

func (p *palette) add(hex string, role colorRole) {
	p.all.add(hex, 1)
	if role == roleNone {
		return
	}
	r, ok := p.roles[role]
	if !ok {
		r = newRank()
		p.roles[role] = r
	}
	r.add(hex, 1)
}

func (p *palette) roleTop(role colorRole) []string {
	if r, ok := p.roles[role]; ok {
		return r.top(maxRoleColors)
	}
	return []string{}
}

// build buckets colors. Primary, secondary and accent fall back to the most
// frequent saturated colors when no declaration named them.
func (p *palette) build() model.ColorPalette {
	out := model.ColorPalette{
		Primary:    p.roleTop(rolePrimary),
		Secondary:  p.roleTop(roleSecondary),
		Accent:     p.roleTop(roleAccent),
		Text:       p.roleTop(roleText),
		Background: p.roleTop(roleBackground),
		All:        p.all.top(maxPaletteColors),
	}

	used := make(map[string]bool)
	for _, c := range append(append([]string{}, out.Primary...), out.Secondary...) {
		used[c] = true
	}
	var saturated []string
	for _, c := range out.All {
		if !isNeutral(c) && !used[c] {
			saturated = append(saturated, c)
		}
	}
	take := func(dst *[]string) {
		if len(*dst) > 0 || len(saturated) == 0 {
			return
		}
		*dst = []string{saturated[0]}
		saturated = saturated[1:]
	}
	take(&out.Primary)
	take(&out.Secondary)
	take(&out.Accent)
	return out
}

func (e *Extractor) colors(src *sources) model.ColorPalette {
	p := newPalette()
	for _, d := range src.decls {
		role, ok := colorProperty(d.prop)
		if !ok {
			continue
		}
		for _, c := range colorsIn(d.value) {
			p.add(c, role)
		}
	}
	for _, class := range src.classes {
		if c, role, ok := utilityColor(class); ok {
			p.add(c, role)
		}
	}
	return p.build()
}
