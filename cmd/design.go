package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/site-intel/internal/crawl"
)

var (
	designURL    string
	designFile   string
	designFormat string
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Extract the color palette, typography, logo and visual style of a page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if designURL == "" {
			return eris.New("--url is required (with --file, the URL the HTML came from)")
		}
		if err := cfg.Validate("local"); err != nil {
			return err
		}
		pageURL := crawl.NormalizeWebsiteURL(designURL)

		f := newFetcher(cfg)
		var html string
		if designFile != "" {
			h, err := readInput(cmd.InOrStdin(), designFile)
			if err != nil {
				return err
			}
			html = h
		} else {
			page, err := f.Fetch(cmd.Context(), pageURL)
			if err != nil {
				return eris.Wrap(err, "fetch page")
			}
			html, pageURL = page.HTML, page.URL
		}

		assets := newDesignExtractor(cfg, f).Extract(cmd.Context(), html, pageURL)
		return writeOutput(cmd.OutOrStdout(), assets, designFormat)
	},
}

func init() {
	designCmd.Flags().StringVar(&designURL, "url", "", "page URL to fetch and analyze")
	designCmd.Flags().StringVar(&designFile, "file", "", "analyze this HTML file instead of fetching (- for stdin)")
	designCmd.Flags().StringVar(&designFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(designCmd)
}
