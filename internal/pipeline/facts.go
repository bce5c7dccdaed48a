package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/site-intel/internal/completion"
	"github.com/sells-group/site-intel/internal/crawl"
	"github.com/sells-group/site-intel/internal/links"
	"github.com/sells-group/site-intel/internal/model"
)

// Facts sources reported in ExtractionMetadata.FactsSource.
const (
	FactsSourceAI  = "ai_extraction"
	FactsSourceWeb = "web_research"
	FactsSourceURL = "url_heuristics"
)

// maxCorpusChars bounds the corpus sent for fact extraction.
const maxCorpusChars = 60000

// Field is one business fact the extractor asks for.
type Field struct {
	Key         string
	Description string
}

// Fields lists the business facts extracted from a crawl.
var Fields = []Field{
	{"company_name", "legal or trading name of the company"},
	{"description", "two or three sentences on what the company does"},
	{"industry", "primary industry"},
	{"products_services", "list of main products or services"},
	{"target_customers", "who the company sells to"},
	{"business_model", "one of B2B, B2C, B2B2C, marketplace, nonprofit, government, other"},
	{"headquarters", "city, region and country of the head office"},
	{"locations", "list of other office or plant locations"},
	{"founded_year", "four-digit year the company was founded"},
	{"employee_count", "approximate number of employees"},
	{"leadership", "list of {name, title} for named executives"},
	{"contact_email", "public contact email"},
	{"contact_phone", "public phone number"},
	{"social_profiles", "list of social media profile URLs"},
	{"domain", "registrable domain of the website"},
}

var fieldKeys = func() map[string]bool {
	m := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		m[f.Key] = true
	}
	return m
}()

const factsSystem = `You are a research analyst building a company profile from its website.

Extract the following fields:
%s
Use only information stated in the provided material. Use null for anything not stated.
Respond with one JSON object whose keys are exactly the field names above, and nothing else.`

const corpusPrompt = `Website: %s

Website content:
%s`

const webPrompt = `Website: %s

The website could not be read. Search the web for this company and fill in what you can find.`

func factsSystemPrompt() string {
	var b strings.Builder
	for _, f := range Fields {
		fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Description)
	}
	return fmt.Sprintf(factsSystem, b.String())
}

// extractFacts asks the completion service for business facts. It falls
// back to URL heuristics when no service is configured, the crawl produced
// no text, or the answer is unusable; the error describes the latter.
func (p *Pipeline) extractFacts(ctx context.Context, site string, res model.CrawlResult, s *crawl.Session) (map[string]any, string, error) {
	heur := urlHeuristics(site)
	if p.facts == nil {
		return heur, FactsSourceURL, nil
	}

	prompt := completion.Prompt{System: factsSystemPrompt()}
	source := FactsSourceAI
	switch {
	case res.Corpus != "":
		prompt.Text = fmt.Sprintf(corpusPrompt, site, truncate(res.Corpus, maxCorpusChars))
	case p.webResearch:
		prompt.Text = fmt.Sprintf(webPrompt, site)
		prompt.UseWebTools = true
		source = FactsSourceWeb
	default:
		s.Record("facts_extract", site, "no content, url heuristics")
		return heur, FactsSourceURL, nil
	}

	text, err := p.facts.Complete(ctx, prompt)
	if err != nil {
		s.Record("facts_extract", site, "error: "+err.Error())
		return heur, FactsSourceURL, eris.Wrap(err, "pipeline: complete facts")
	}
	var raw map[string]any
	if err := completion.DecodeJSON(text, &raw); err != nil {
		s.Record("facts_extract", site, "error: "+err.Error())
		return heur, FactsSourceURL, eris.Wrap(err, "pipeline: decode facts")
	}

	fields := keepKnown(raw)
	for k, v := range heur {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	s.Record("facts_extract", site, fmt.Sprintf("%s: %d fields", source, len(fields)))
	return fields, source, nil
}

// keepKnown drops unknown keys and empty values.
func keepKnown(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if !fieldKeys[k] || empty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		return s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "unknown")
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// urlHeuristics derives what little the URL itself says about a company.
func urlHeuristics(site string) map[string]any {
	out := map[string]any{}
	if name := links.CompanyNameFromURL(site); name != "" {
		out["company_name"] = name
	}
	if d := links.CompanyKey(site); d != "" {
		out["domain"] = d
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
