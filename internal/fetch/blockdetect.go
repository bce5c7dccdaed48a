package fetch

import (
	"net/http"
	"strings"
)

// BlockType names the kind of anti-bot wall a response hit.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// smallPage is the body size below which captcha and shell markers are
// trusted. Real pages often embed a captcha widget in a contact form.
const smallPage = 4096

// DetectBlock inspects a response for challenge pages.
func DetectBlock(resp *http.Response, body []byte) BlockType {
	if resp == nil {
		return BlockNone
	}

	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusServiceUnavailable, http.StatusTooManyRequests:
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "checking your browser before accessing") ||
		strings.Contains(lower, "cf-challenge") {
		return BlockCloudflare
	}

	if len(body) >= smallPage {
		return BlockNone
	}
	if strings.Contains(lower, "captcha") {
		return BlockCaptcha
	}
	if strings.Contains(lower, "<noscript") && strings.Contains(lower, "enable javascript") {
		return BlockJSShell
	}
	return BlockNone
}
