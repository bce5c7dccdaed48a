package model

import "time"

// AnalysisMethod labels which crawl tier and terminal state produced a result.
type AnalysisMethod string

const (
	MethodMultiPage               AnalysisMethod = "multi_page_analysis"
	MethodHomepageOnlyNoLinks     AnalysisMethod = "homepage_only_no_links"
	MethodHomepageOnlyParseFailed AnalysisMethod = "homepage_only_ai_parsing_failed"
	MethodHomepageOnlyNoneChosen  AnalysisMethod = "homepage_only_ai_selected_none"
	MethodHomepageOnlySelectError AnalysisMethod = "homepage_only_selection_error"
	MethodSinglePageFallback      AnalysisMethod = "single_page_fallback"
	MethodURLOnlyFallback         AnalysisMethod = "url_only_fallback"
)

// IsHomepageOnly reports whether the method is one of the homepage_only_* states.
func (m AnalysisMethod) IsHomepageOnly() bool {
	switch m {
	case MethodHomepageOnlyNoLinks, MethodHomepageOnlyParseFailed,
		MethodHomepageOnlyNoneChosen, MethodHomepageOnlySelectError:
		return true
	}
	return false
}

// Selection strategies reported by the page selector.
const (
	StrategyAISelection     = "ai_selection"
	StrategyNoLinks         = "no_links"
	StrategyAIParsingFailed = "ai_parsing_failed"
	StrategyAISelectedNone  = "ai_selected_none"
	StrategySelectionError  = "selection_error"
	StrategyNone            = "none"
)

// MaxSelectedLinks caps how many pages the selector may choose per crawl.
const MaxSelectedLinks = 10

// SelectedLink is an ExtractedLink chosen by the page selector, with the
// selector's short justification.
type SelectedLink struct {
	ExtractedLink
	Reasoning string `json:"reasoning"`
}

// LinkSelection is the page selector's output for one crawl.
type LinkSelection struct {
	SelectedLinks []SelectedLink `json:"selected_links"`
	TotalSelected int            `json:"total_selected"`
	Strategy      string         `json:"strategy"`
}

// CrawlResult is the assembled output of one crawl tier.
type CrawlResult struct {
	WebsiteURL        string         `json:"website_url"`
	HomepageContent   PageContent    `json:"homepage_content"`
	AdditionalPages   []PageContent  `json:"additional_pages"`
	AnalysisMethod    AnalysisMethod `json:"analysis_method"`
	SelectionStrategy string         `json:"selection_strategy"`
	PagesSelected     int            `json:"pages_selected"`
	Corpus            string         `json:"corpus"`
	DesignAssets      *DesignAssets  `json:"design_assets,omitempty"`
}

// PagesAnalyzed counts the homepage plus every additional page with content.
func (r *CrawlResult) PagesAnalyzed() int {
	n := 0
	if r.HomepageContent.HasContent() {
		n++
	}
	for _, p := range r.AdditionalPages {
		if p.HasContent() {
			n++
		}
	}
	return n
}

// Request is the inbound analysis request.
type Request struct {
	WebsiteURL    string `json:"website_url"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ExtractionMetadata describes how a Report was produced.
type ExtractionMetadata struct {
	Method            AnalysisMethod `json:"method"`
	SelectionStrategy string         `json:"selection_strategy"`
	PagesAnalyzed     int            `json:"pages_analyzed"`
	ContentLength     int            `json:"content_length"`
	Timestamp         time.Time      `json:"timestamp"`
	CorrelationID     string         `json:"correlation_id"`
	Degraded          bool           `json:"degraded"`
	Reason            string         `json:"reason,omitempty"`
	FactsSource       string         `json:"facts_source"`
}

// Report is the outbound result of an analysis request.
type Report struct {
	WebsiteURL         string             `json:"website_url"`
	Fields             map[string]any     `json:"fields"`
	DesignAssets       *DesignAssets      `json:"design_assets"`
	ExtractionMetadata ExtractionMetadata `json:"extraction_metadata"`
	Diagnostics        []DiagnosticEvent  `json:"diagnostics,omitempty"`
}

// DiagnosticEvent is one recorded step of a crawl session.
type DiagnosticEvent struct {
	At     time.Time `json:"at"`
	Step   string    `json:"step"`
	URL    string    `json:"url,omitempty"`
	Detail string    `json:"detail,omitempty"`
}
