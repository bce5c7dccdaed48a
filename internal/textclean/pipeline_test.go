package textclean

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-intel/internal/model"
)

var tagShapedRe = regexp.MustCompile(`<[a-zA-Z!/?][^<>]*>`)

const acmeHTML = `<nav>Home About</nav><main><h1>Acme makes widgets</h1><p>We help 500 clients save $10,000/year.</p></main><footer>Home About</footer>`

func TestExtractCleanText_NavFooterExample(t *testing.T) {
	t.Parallel()

	got := ExtractCleanText(acmeHTML)
	assert.Equal(t, "Acme makes widgets\nWe help 500 clients save $10,000/year.", got)
	assert.NotContains(t, got, "Home")
}

func TestExtractCleanText_Idempotent(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>X</title><style>.a{color:red}</style></head><body>
<header><a href="/">Logo</a></header>
<section><h2>Our platform</h2><p>Teams use our platform to ship 40% faster, with fewer incidents.</p>
<ul><li>Fast setup in under 5 minutes.</li><li>Pricing starts at $29 per seat.</li></ul></section>
<script>var x = "<p>hidden</p>";</script></body></html>`

	first := ExtractCleanText(html)
	second := ExtractCleanText(html)
	assert.Equal(t, first, second)
	assert.Equal(t, first, ExtractCleanText(html, WithThresholds(DefaultThresholds())))
	assert.Contains(t, first, "ship 40% faster")
	assert.NotContains(t, first, "hidden")
	assert.NotContains(t, first, "color:red")
}

func TestExtractCleanText_SizeBound(t *testing.T) {
	t.Parallel()

	var long strings.Builder
	for i := 0; i < 3000; i++ {
		fmt.Fprintf(&long, "<p>Customer %d saved $%d after adopting plan %d, a %d%% gain.</p>\n", i, i*7, i%13, i%90)
	}

	inputs := []string{
		"",
		"plain text without tags",
		"a.B",
		"<p>x</p>",
		"&amp;&lt;&gt;",
		acmeHTML,
		long.String(),
	}
	for _, in := range inputs {
		got := ExtractCleanText(in)
		assert.LessOrEqual(t, len(got), len(in), "input %.40q", in)
		assert.LessOrEqual(t, len(got), DefaultThresholds().MaxChars)
	}
}

func TestExtractCleanText_NoMarkupLeakage(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<div><<b>nested>tags</b> are tricky, aren't they? Yes they are.</div>`,
		`<p>&lt;script&gt;alert(1)&lt;/script&gt; was escaped in this paragraph of text.</p>`,
		`<p>Math: 5 &lt; 10 and 20 &gt; 3 holds true, always and forever.</p>`,
		`<!-- comment <p>inside</p> --><p>Visible paragraph with enough words to survive.</p>`,
		`<table><tr><td>Plan</td><td>$10/month</td></tr><tr><td>Pro plan</td><td>$50/month, billed yearly.</td></tr></table>`,
	}
	for _, in := range inputs {
		got := ExtractCleanText(in)
		assert.False(t, tagShapedRe.MatchString(got), "markup leaked: %q", got)
		assert.NotContains(t, got, "⟪")
	}
}

func TestExtractCleanText_KeepsComparisonText(t *testing.T) {
	t.Parallel()

	got := ExtractCleanText(`<p>Math: 5 &lt; 10 and 20 &gt; 3 holds true, always and forever.</p>`)
	assert.Contains(t, got, "5 < 10 and 20 > 3")
}

func TestExtractCleanText_SkipFooterNav(t *testing.T) {
	t.Parallel()

	html := `<nav>Products, pricing, and support for every team on the planet.</nav>
<p>We build reliable widgets for small manufacturing teams.</p>
<footer>Copyright 2024 Acme Inc. All rights reserved worldwide, forever.</footer>`

	with := ExtractCleanText(html, WithSkipFooterNav())
	assert.Contains(t, with, "reliable widgets")
	assert.NotContains(t, with, "All rights reserved")
	assert.NotContains(t, with, "every team on the planet")

	without := ExtractCleanText(html)
	assert.Contains(t, without, "All rights reserved")
}

func TestExtractCleanText_RemovesNonContentBlocks(t *testing.T) {
	t.Parallel()

	html := `<p>Our consultants cut cloud bills by 30% in the first quarter.</p>
<svg><text>Chart label text that should vanish entirely</text></svg>
<iframe src="x">Frame fallback text that should also vanish.</iframe>
<canvas>Canvas fallback text, also removed from output.</canvas>`

	got := ExtractCleanText(html)
	assert.Contains(t, got, "cut cloud bills by 30%")
	assert.NotContains(t, got, "Chart label")
	assert.NotContains(t, got, "Frame fallback")
	assert.NotContains(t, got, "Canvas fallback")
}

func TestExtractCleanText_CustomScorer(t *testing.T) {
	t.Parallel()

	keepAll := ScorerFunc(func(string, model.DocumentStatistics) float64 { return 1 })
	got := ExtractCleanText(acmeHTML, WithScorer(keepAll))
	assert.Contains(t, got, "Home About")
}

func TestExtractCleanText_PanicFallsBack(t *testing.T) {
	t.Parallel()

	boom := ScorerFunc(func(string, model.DocumentStatistics) float64 { panic("boom") })
	got := ExtractCleanText(acmeHTML, WithScorer(boom))
	assert.Equal(t, MinimalFallback(acmeHTML, 8000), got)
	assert.Contains(t, got, "Acme makes widgets")
}

func TestMinimalFallback(t *testing.T) {
	t.Parallel()

	got := MinimalFallback(`<script>track()</script><style>p{}</style><p>Hello</p>   <b>world</b>`, 0)
	assert.Equal(t, "Hello world", got)

	capped := MinimalFallback(strings.Repeat("word ", 3000), 0)
	assert.LessOrEqual(t, len(capped), 8000)

	small := MinimalFallback("<p>abcdef</p>", 3)
	assert.Equal(t, "abc", small)
}

func TestDecodeEntities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Tom&amp;Jerry", "Tom&Jerry"},
		{"a&unknownthing;b", "a b"},
		{"&amp;lt;", "&lt;"},
		{"x&#12345;y", "x y"},
		{"it&rsquo;s", "it's"},
		{"AT&AMP;T", "AT&T"},
		{"no entities here", "no entities here"},
		{"fish & chips", "fish & chips"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeEntities(tt.in), tt.in)
	}
}

func TestMapSemanticRoles(t *testing.T) {
	t.Parallel()

	got := mapSemanticRoles(`<h2 class="x">Title</h2><ul><li>One</li></ul><p>Some <strong>bold</strong> text</p>`)
	require.Contains(t, got, markHeading+" Title")
	assert.Contains(t, got, markList+" One")
	assert.Contains(t, got, markEmphasis+"bold")
	assert.False(t, tagShapedRe.MatchString(got))
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme Widgets", ExtractTitle("<title> Acme\n\tWidgets </title>"))
	assert.Equal(t, "OG Title", ExtractTitle(`<meta property="og:title" content=" OG Title ">`))
	assert.Equal(t, "", ExtractTitle(`<p>no title</p>`))
}

func TestExtractSiteName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Acme", ExtractSiteName(`<meta property="og:site_name" content=" Acme ">`))
	assert.Equal(t, "Globex", ExtractSiteName(`<meta name="application-name" content="Globex">`))
	assert.Equal(t, "", ExtractSiteName(`<title>Only a title</title>`))
}
