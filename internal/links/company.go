package links

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CompanyKey normalizes a website URL to the registrable domain that
// identifies the company: "https://www.shop.acme.co.uk/x" -> "acme.co.uk".
// Bare hosts without a scheme are accepted. IPs and unknown suffixes fall
// back to the normalized host; unparseable input returns "".
func CompanyKey(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld1
}

var titleCaser = cases.Title(language.English)

// CompanyNameFromURL guesses a display name from the registrable domain's
// first label: "https://acme-widgets.com" -> "Acme Widgets".
func CompanyNameFromURL(rawURL string) string {
	key := CompanyKey(rawURL)
	if key == "" || net.ParseIP(key) != nil {
		return ""
	}
	label := key
	if suffix, _ := publicsuffix.PublicSuffix(key); suffix != "" && suffix != key {
		label = strings.TrimSuffix(key, "."+suffix)
	}
	if i := strings.LastIndexByte(label, '.'); i >= 0 {
		label = label[i+1:]
	}
	label = strings.NewReplacer("-", " ", "_", " ").Replace(label)
	return titleCaser.String(strings.Join(strings.Fields(label), " "))
}

func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return NormalizeHost(strings.TrimSuffix(u.Hostname(), "."))
}
