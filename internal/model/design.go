package model

import "time"

// NotFound is the sentinel value reported for design fields that could not
// be determined.
const NotFound = "Not found"

// Logo statuses.
const (
	LogoStatusDownloaded    = "downloaded"
	LogoStatusNotDownloaded = "found_not_downloaded"
	LogoStatusNotFound      = "not_found"
)

// DesignAssets is the best-effort design metadata mined from one homepage.
type DesignAssets struct {
	ColorPalette       ColorPalette     `json:"color_palette"`
	Typography         Typography       `json:"typography"`
	LogoAssets         LogoAssets       `json:"logo_assets"`
	VisualElements     VisualElements   `json:"visual_elements"`
	ExtractionMetadata DesignExtraction `json:"extraction_metadata"`
}

// ColorPalette groups normalized #rrggbb colors by heuristic role.
type ColorPalette struct {
	Primary    []string `json:"primary"`
	Secondary  []string `json:"secondary"`
	Text       []string `json:"text"`
	Background []string `json:"background"`
	Accent     []string `json:"accent"`
	All        []string `json:"all"`
}

// Typography summarizes the font stack of a page.
type Typography struct {
	PrimaryFont   string   `json:"primary_font"`
	SecondaryFont string   `json:"secondary_font"`
	AllFonts      []string `json:"all_fonts"`
	WebFonts      []string `json:"web_fonts"`
	FontWeights   []string `json:"font_weights"`
	SizeScale     []string `json:"size_scale"`
}

// AssetFile describes one downloaded (or attempted) binary asset.
type AssetFile struct {
	SourceURL   string `json:"source_url"`
	StoragePath string `json:"storage_path,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Format      string `json:"format,omitempty"`
	Status      string `json:"status"`
}

// LogoAssets holds the logo and favicon, each possibly not found.
type LogoAssets struct {
	Logo    AssetFile `json:"logo"`
	Favicon AssetFile `json:"favicon"`
}

// VisualElements captures recurring visual patterns from CSS.
type VisualElements struct {
	BorderRadius []string `json:"border_radius"`
	Shadows      []string `json:"shadows"`
	Spacing      []string `json:"spacing"`
	UsesFlexbox  bool     `json:"uses_flexbox"`
	UsesGrid     bool     `json:"uses_grid"`
}

// DesignExtraction records how design assets were gathered.
type DesignExtraction struct {
	SourceURL      string    `json:"source_url"`
	CSSFilesFound  int       `json:"css_files_found"`
	CSSFilesLoaded int       `json:"css_files_loaded"`
	ExtractedAt    time.Time `json:"extracted_at"`
	Errors         []string  `json:"errors,omitempty"`
}
