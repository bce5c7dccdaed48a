package model

// LinkCategory is a coarse, informational classification of a link path.
type LinkCategory string

const (
	LinkCategoryAbout   LinkCategory = "about"
	LinkCategoryPricing LinkCategory = "pricing"
	LinkCategoryProduct LinkCategory = "product"
	LinkCategorySupport LinkCategory = "support"
	LinkCategoryContent LinkCategory = "content"
	LinkCategoryLegal   LinkCategory = "legal"
	LinkCategoryOther   LinkCategory = "other"
)

// AllLinkCategories returns all defined link categories.
func AllLinkCategories() []LinkCategory {
	return []LinkCategory{
		LinkCategoryAbout,
		LinkCategoryPricing,
		LinkCategoryProduct,
		LinkCategorySupport,
		LinkCategoryContent,
		LinkCategoryLegal,
		LinkCategoryOther,
	}
}

// RawPage is a fetched HTML document. It lives only for the duration of a
// single crawl step.
type RawPage struct {
	URL         string `json:"url"`
	HTML        string `json:"-"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
}

// ExtractedLink is a resolved, fragment-free hyperlink found in a page.
type ExtractedLink struct {
	URL        string       `json:"url"`
	Text       string       `json:"text"`
	IsExternal bool         `json:"is_external"`
	Domain     string       `json:"domain"`
	Category   LinkCategory `json:"category"`
}

// PageContent is the cleaned text of one fetched page. A non-empty Error
// means the page produced no usable content.
type PageContent struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	CleanText     string `json:"clean_text"`
	ContentLength int    `json:"content_length"`
	IsExternal    bool   `json:"is_external"`
	Domain        string `json:"domain"`
	Error         string `json:"error,omitempty"`
}

// HasContent reports whether the page carries usable text.
func (p PageContent) HasContent() bool {
	return p.Error == "" && p.CleanText != ""
}

// DocumentStatistics summarizes the line/word shape of one page. It is
// computed once per page and consumed only by that page's filtering pass.
type DocumentStatistics struct {
	LineCount            int     `json:"line_count"`
	WordCount            int     `json:"word_count"`
	AvgWordsPerLine      float64 `json:"avg_words_per_line"`
	AvgCharsPerLine      float64 `json:"avg_chars_per_line"`
	LexicalDiversity     float64 `json:"lexical_diversity"`
	InformationThreshold float64 `json:"information_threshold"`
}
