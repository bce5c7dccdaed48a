package crawl

import (
	"fmt"
	"strings"

	"github.com/sells-group/site-intel/internal/links"
	"github.com/sells-group/site-intel/internal/model"
)

// maxBlockLinks caps each section of a page links block.
const maxBlockLinks = 25

// pageLinksBlock renders the not-yet-seen links of a page so fact extraction
// keeps cross-page context. Returns "" when nothing new was found.
func pageLinksBlock(found []model.ExtractedLink, s *Session) string {
	var fresh []model.ExtractedLink
	for _, l := range found {
		if s.Mention(l.URL) {
			fresh = append(fresh, l)
		}
	}
	if len(fresh) == 0 {
		return ""
	}

	internal, external := links.Partition(fresh)
	var b strings.Builder
	b.WriteString("Page links:")
	writeSection := func(title string, ls []model.ExtractedLink) {
		if len(ls) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:", title)
		for i, l := range ls {
			if i == maxBlockLinks {
				fmt.Fprintf(&b, "\n- (%d more)", len(ls)-maxBlockLinks)
				break
			}
			fmt.Fprintf(&b, "\n- %s: %s", l.Text, l.URL)
		}
	}
	writeSection("Internal", internal)
	writeSection("External", external)
	return b.String()
}

// assembleCorpus joins the homepage and every page with content into one
// tagged document.
func assembleCorpus(home model.PageContent, pages []model.PageContent) string {
	var b strings.Builder
	if home.HasContent() {
		fmt.Fprintf(&b, "=== HOMEPAGE: %s ===\n", home.URL)
		if home.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", home.Title)
		}
		b.WriteString(home.CleanText)
	}
	for _, p := range pages {
		if !p.HasContent() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		tag := "PAGE"
		if p.IsExternal {
			tag = "EXTERNAL PAGE"
		}
		fmt.Fprintf(&b, "=== %s: %s ===\n", tag, p.URL)
		if p.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", p.Title)
		}
		b.WriteString(p.CleanText)
	}
	return b.String()
}
