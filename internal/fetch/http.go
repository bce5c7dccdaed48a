package fetch

import (
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/site-intel/internal/model"
)

// DefaultUserAgent is a desktop browser string; many marketing sites serve
// stripped pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Options configures an HTTPFetcher.
type Options struct {
	UserAgent string
	// Timeout bounds each request. Default 30s.
	Timeout time.Duration
	// MaxBodyBytes truncates bodies. Default 5 MiB.
	MaxBodyBytes int64
	// CourtesyDelay is the minimum gap between requests to one host.
	// Zero disables pacing.
	CourtesyDelay time.Duration
}

// HTTPFetcher implements Fetcher with net/http and per-host pacing.
type HTTPFetcher struct {
	client *http.Client
	opts   Options

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTP creates an HTTPFetcher, filling unset options with defaults.
func NewHTTP(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 << 20
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*model.RawPage, error) {
	resp, body, err := f.get(ctx, rawURL, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	if err != nil {
		return nil, err
	}

	if bt := DetectBlock(resp, body); bt != BlockNone {
		return nil, eris.Wrapf(ErrBlocked, "%s (%s)", rawURL, bt)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	ct := resp.Header.Get("Content-Type")
	if !isHTML(ct, body) {
		return nil, eris.Wrapf(ErrNotHTML, "%s (%s)", rawURL, ct)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, eris.Wrap(ErrEmpty, rawURL)
	}

	return &model.RawPage{
		URL:         resp.Request.URL.String(),
		HTML:        decodeBody(ct, body),
		StatusCode:  resp.StatusCode,
		ContentType: ct,
	}, nil
}

// Download implements Fetcher.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (*Asset, error) {
	resp, body, err := f.get(ctx, rawURL, "*/*")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	if len(body) == 0 {
		return nil, eris.Wrap(ErrEmpty, rawURL)
	}
	return &Asset{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL, accept string) (*http.Response, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, nil, eris.Errorf("fetch: invalid url %q", rawURL)
	}

	if err := f.pace(ctx, u.Host); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "fetch: get %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, nil, eris.Wrapf(err, "fetch: read body %s", rawURL)
	}

	zap.L().Debug("fetch: response",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, body, nil
}

// pace blocks until host's courtesy delay has elapsed.
func (f *HTTPFetcher) pace(ctx context.Context, host string) error {
	if f.opts.CourtesyDelay <= 0 {
		return nil
	}
	f.mu.Lock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(f.opts.CourtesyDelay), 1)
		f.limiters[host] = lim
	}
	f.mu.Unlock()

	if err := lim.Wait(ctx); err != nil {
		return eris.Wrap(err, "fetch: courtesy delay")
	}
	return nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			return mt == "text/html" || mt == "application/xhtml+xml"
		}
	}
	return strings.HasPrefix(http.DetectContentType(body), "text/html")
}
