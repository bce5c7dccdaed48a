package design

import (
	"context"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/site-intel/internal/model"
)

// headerScopes are where a site logo usually sits.
const headerScopes = "header, nav, [role='banner'], [class*='header'], [class*='navbar'], [id*='header']"

func imgSource(s *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	if v, ok := s.Attr("srcset"); ok {
		first, _, _ := strings.Cut(strings.TrimSpace(v), ",")
		if f := strings.Fields(first); len(f) > 0 {
			return f[0]
		}
	}
	return ""
}

func looksLikeLogo(s *goquery.Selection) bool {
	for _, attr := range []string{"class", "id", "alt", "src"} {
		if v, ok := s.Attr(attr); ok && strings.Contains(strings.ToLower(v), "logo") {
			return true
		}
	}
	return false
}

// findLogo returns the raw logo reference, or "".
func findLogo(doc *goquery.Document) string {
	candidates := []func() *goquery.Selection{
		func() *goquery.Selection { return doc.Find(headerScopes).Find("img").FilterFunction(isLogoImg) },
		func() *goquery.Selection { return doc.Find("img").FilterFunction(isLogoImg) },
		func() *goquery.Selection {
			return doc.Find("[class*='logo'] img, [id*='logo'] img, [class*='brand'] img")
		},
		func() *goquery.Selection { return doc.Find("header img") },
	}
	for _, c := range candidates {
		var src string
		c().EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src = imgSource(s)
			return src == ""
		})
		if src != "" {
			return src
		}
	}
	if og, ok := doc.Find("meta[property='og:logo'], meta[itemprop='logo']").Attr("content"); ok && og != "" {
		return og
	}
	if og, ok := doc.Find("meta[property='og:image']").Attr("content"); ok {
		return og
	}
	return ""
}

func isLogoImg(_ int, s *goquery.Selection) bool { return looksLikeLogo(s) }

// findFavicon returns the raw favicon reference, or "".
func findFavicon(doc *goquery.Document) string {
	for _, sel := range []string{
		"link[rel~='icon'][href]",
		"link[rel~='apple-touch-icon'][href]",
		"link[rel~='mask-icon'][href]",
	} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return href
		}
	}
	return ""
}

var formatByMIME = map[string]string{
	"image/png":                "png",
	"image/jpeg":               "jpg",
	"image/gif":                "gif",
	"image/webp":               "webp",
	"image/svg+xml":            "svg",
	"image/x-icon":             "ico",
	"image/vnd.microsoft.icon": "ico",
	"image/avif":               "avif",
}

func assetFormat(contentType, ref string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if f, ok := formatByMIME[mt]; ok {
			return f
		}
	}
	if u, err := url.Parse(ref); err == nil {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
		switch ext {
		case "jpeg":
			return "jpg"
		case "png", "jpg", "gif", "webp", "svg", "ico", "avif":
			return ext
		}
	}
	return "bin"
}

// asset downloads and stores ref. kind names the stored file.
func (e *Extractor) asset(ctx context.Context, base *url.URL, ref, kind, company string, errs *[]string) model.AssetFile {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.AssetFile{Status: model.LogoStatusNotFound}
	}
	if strings.HasPrefix(strings.ToLower(ref), "data:") {
		return model.AssetFile{SourceURL: "data:", Status: model.LogoStatusNotDownloaded}
	}
	abs := resolveRef(base, ref)
	if abs == "" {
		return model.AssetFile{SourceURL: ref, Status: model.LogoStatusNotDownloaded}
	}

	af := model.AssetFile{SourceURL: abs, Status: model.LogoStatusNotDownloaded, Format: assetFormat("", abs)}
	if e.fetcher == nil {
		return af
	}

	a, err := e.fetcher.Download(ctx, abs)
	if err != nil {
		*errs = append(*errs, kind+" download: "+err.Error())
		return af
	}
	af.Format = assetFormat(a.ContentType, abs)
	af.SizeBytes = int64(len(a.Body))

	p, err := e.store.Put(ctx, company, kind+"."+af.Format, a.Body)
	if err != nil {
		zap.L().Debug("design: asset not stored", zap.String("url", abs), zap.Error(err))
		*errs = append(*errs, kind+" store: "+err.Error())
		return af
	}
	af.StoragePath = p
	af.Status = model.LogoStatusDownloaded
	return af
}

func (e *Extractor) logos(ctx context.Context, doc *goquery.Document, base *url.URL, company string, errs *[]string) model.LogoAssets {
	la := model.LogoAssets{
		Logo: e.asset(ctx, base, findLogo(doc), "logo", company, errs),
	}

	fav := findFavicon(doc)
	if fav != "" {
		la.Favicon = e.asset(ctx, base, fav, "favicon", company, errs)
		return la
	}

	// Most sites still answer /favicon.ico without declaring it.
	la.Favicon = model.AssetFile{Status: model.LogoStatusNotFound}
	if base != nil && e.fetcher != nil {
		var probeErrs []string
		af := e.asset(ctx, base, "/favicon.ico", "favicon", company, &probeErrs)
		if af.SizeBytes > 0 {
			la.Favicon = af
		}
	}
	return la
}
