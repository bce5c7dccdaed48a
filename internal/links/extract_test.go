package links

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-intel/internal/model"
)

func TestExtractAllLinks_FragmentExcluded(t *testing.T) {
	t.Parallel()

	got := ExtractAllLinks(`<a href="/about#team">Team</a>`, "https://x.com/")
	assert.Empty(t, got)

	got = ExtractAllLinks(`<a href="/about">About us</a>`, "https://x.com/")
	require.Len(t, got, 1)
	assert.Equal(t, "https://x.com/about", got[0].URL)
	assert.Equal(t, model.LinkCategoryAbout, got[0].Category)
	assert.Equal(t, "About us", got[0].Text)
	assert.False(t, got[0].IsExternal)
	assert.Equal(t, "x.com", got[0].Domain)
}

func TestExtractAllLinks_Dedup(t *testing.T) {
	t.Parallel()

	html := `
<a href="/pricing">Pricing</a>
<a href="https://x.com/pricing">See pricing</a>
<a href='HTTPS://X.COM/PRICING'>PRICING</a>
<a href=/pricing>Plans</a>`
	got := ExtractAllLinks(html, "https://x.com/")
	require.Len(t, got, 1)
	assert.Equal(t, "Pricing", got[0].Text)
	assert.Equal(t, model.LinkCategoryPricing, got[0].Category)
}

func TestExtractAllLinks_DropsUnusable(t *testing.T) {
	t.Parallel()

	html := `
<a href="#top">Back to top</a>
<a href="javascript:void(0)">Open menu</a>
<a href="mailto:hi@x.com">Email</a>
<a href="tel:+15555555">Call</a>
<a href="/empty"><img src="x.png"></a>
<a>No href at all</a>
<a href="http://[::1">Broken</a>
<a href="/careers">Careers</a>`
	got := ExtractAllLinks(html, "https://x.com/")
	require.Len(t, got, 1)
	assert.Equal(t, "https://x.com/careers", got[0].URL)
}

func TestExtractAllLinks_InnerMarkupAndLabels(t *testing.T) {
	t.Parallel()

	html := `<a href="/products"><span class="i"></span> Our <b>Products</b> &amp; Services</a>
<a href="/search" aria-label="Search site"><svg></svg></a>`
	got := ExtractAllLinks(html, "https://x.com/")
	require.Len(t, got, 2)
	assert.Equal(t, "Our Products & Services", got[0].Text)
	assert.Equal(t, model.LinkCategoryProduct, got[0].Category)
	assert.Equal(t, "Search site", got[1].Text)
}

func TestExtractAllLinks_ExternalAndRelative(t *testing.T) {
	t.Parallel()

	html := `<a href="https://www.linkedin.com/company/x">LinkedIn</a>
<a href="docs/start">Getting started</a>
<a href="https://www.x.com/contact">Contact</a>`
	got := ExtractAllLinks(html, "https://x.com/en/")
	require.Len(t, got, 3)

	assert.True(t, got[0].IsExternal)
	assert.Equal(t, "linkedin.com", got[0].Domain)

	assert.Equal(t, "https://x.com/en/docs/start", got[1].URL)
	assert.False(t, got[1].IsExternal)
	assert.Equal(t, model.LinkCategorySupport, got[1].Category)

	assert.False(t, got[2].IsExternal, "www. prefix is the same site")
}

func TestExtractAllLinks_BadBase(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ExtractAllLinks(`<a href="/a">A</a>`, "not a url"))
	assert.Nil(t, ExtractAllLinks(`<a href="/a">A</a>`, ""))
}

func TestExtractAllLinks_ManyAnchorsOneURL(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, `<a href="/solutions">Solutions %d</a>`, i)
	}
	got := ExtractAllLinks(b.String(), "https://x.com")
	assert.Len(t, got, 1)
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want model.LinkCategory
	}{
		{"/about", model.LinkCategoryAbout},
		{"/about-us/", model.LinkCategoryAbout},
		{"/en/team", model.LinkCategoryAbout},
		{"/pricing", model.LinkCategoryPricing},
		{"/products/widget-pro", model.LinkCategoryProduct},
		{"/services", model.LinkCategoryProduct},
		{"/help/faq", model.LinkCategorySupport},
		{"/contact", model.LinkCategorySupport},
		{"/blog/about-our-team", model.LinkCategoryContent},
		{"/case-studies/acme", model.LinkCategoryContent},
		{"/privacy-policy", model.LinkCategoryLegal},
		{"/terms", model.LinkCategoryLegal},
		{"/", model.LinkCategoryOther},
		{"", model.LinkCategoryOther},
		{"/aboutface", model.LinkCategoryOther},
		{"/widgets", model.LinkCategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.path), tt.path)
	}
}

func TestPartition(t *testing.T) {
	t.Parallel()

	in := []model.ExtractedLink{
		{URL: "https://x.com/a"},
		{URL: "https://y.com/", IsExternal: true},
		{URL: "https://x.com/b"},
	}
	internal, external := Partition(in)
	assert.Len(t, internal, 2)
	assert.Len(t, external, 1)
	assert.Equal(t, "https://y.com/", external[0].URL)
}
