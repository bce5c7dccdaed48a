// Package fetch performs the outbound HTTP GETs of a crawl: HTML pages for
// text extraction and raw assets (stylesheets, logos) for design mining.
package fetch

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/site-intel/internal/model"
)

// Fetcher retrieves documents over HTTP.
type Fetcher interface {
	// Fetch returns an HTML page. Non-2xx, blocked and non-HTML responses
	// are errors.
	Fetch(ctx context.Context, url string) (*model.RawPage, error)
	// Download returns the raw bytes of any 2xx response.
	Download(ctx context.Context, url string) (*Asset, error)
}

// Asset is a downloaded non-page resource.
type Asset struct {
	URL         string
	ContentType string
	Body        []byte
}

// Sentinel errors for responses that carry no usable page.
var (
	ErrNotHTML = eris.New("fetch: response is not html")
	ErrBlocked = eris.New("fetch: blocked by anti-bot protection")
	ErrEmpty   = eris.New("fetch: empty body")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: status %d from %s", e.Code, e.URL)
}
