package fetch

import (
	"bytes"
	"io"
	"mime"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// metaSniffBytes is how much of the body is searched for a <meta> charset.
const metaSniffBytes = 1024

var metaCharsetRe = regexp.MustCompile(`(?i)<meta[^>]+charset\s*=\s*["']?\s*([a-zA-Z0-9_:.\-]+)`)

// declaredCharset returns the charset from the Content-Type header, or from
// a <meta charset> / http-equiv tag near the top of body.
func declaredCharset(contentType string, body []byte) string {
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil && params["charset"] != "" {
			return params["charset"]
		}
	}
	head := body
	if len(head) > metaSniffBytes {
		head = head[:metaSniffBytes]
	}
	if m := metaCharsetRe.FindSubmatch(head); m != nil {
		return string(m[1])
	}
	return ""
}

// decodeBody converts body to UTF-8 using its declared charset. Unknown or
// undeclared charsets return body unchanged.
func decodeBody(contentType string, body []byte) string {
	cs := strings.TrimSpace(declaredCharset(contentType, body))
	if cs == "" {
		return string(body)
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		zap.L().Debug("fetch: unknown charset, using raw bytes", zap.String("charset", cs))
		return string(body)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return string(body)
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil {
		zap.L().Debug("fetch: charset decode failed, using raw bytes", zap.String("charset", cs), zap.Error(err))
		return string(body)
	}
	return string(out)
}
