package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllLinkCategories(t *testing.T) {
	t.Parallel()

	cats := AllLinkCategories()

	t.Run("has expected count", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, cats, 7)
	})

	t.Run("ends with other", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, LinkCategoryOther, cats[len(cats)-1])
	})

	t.Run("no duplicates", func(t *testing.T) {
		t.Parallel()
		seen := make(map[LinkCategory]bool)
		for _, c := range cats {
			assert.False(t, seen[c], "duplicate category: %s", c)
			seen[c] = true
		}
	})
}

func TestPageContent_HasContent(t *testing.T) {
	t.Parallel()

	assert.True(t, PageContent{CleanText: "We build widgets."}.HasContent())
	assert.False(t, PageContent{CleanText: "text", Error: "timeout"}.HasContent())
	assert.False(t, PageContent{}.HasContent())
}

func TestAnalysisMethod_IsHomepageOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method AnalysisMethod
		want   bool
	}{
		{MethodHomepageOnlyNoLinks, true},
		{MethodHomepageOnlyParseFailed, true},
		{MethodHomepageOnlyNoneChosen, true},
		{MethodHomepageOnlySelectError, true},
		{MethodMultiPage, false},
		{MethodSinglePageFallback, false},
		{MethodURLOnlyFallback, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.method.IsHomepageOnly())
		})
	}
}

func TestCrawlResult_PagesAnalyzed(t *testing.T) {
	t.Parallel()

	r := &CrawlResult{
		HomepageContent: PageContent{CleanText: "home"},
		AdditionalPages: []PageContent{
			{CleanText: "about"},
			{Error: "status 404"},
			{CleanText: ""},
		},
	}
	assert.Equal(t, 2, r.PagesAnalyzed())

	empty := &CrawlResult{}
	assert.Equal(t, 0, empty.PagesAnalyzed())
}
