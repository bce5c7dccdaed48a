package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/site-intel/internal/links"
	"github.com/sells-group/site-intel/internal/model"
)

var (
	linksFile   string
	linksBase   string
	linksFormat string
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List the resolved, categorized links of an HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if linksFile == "" || linksBase == "" {
			return eris.New("--file and --base are required")
		}
		html, err := readInput(cmd.InOrStdin(), linksFile)
		if err != nil {
			return err
		}

		found := links.ExtractAllLinks(html, linksBase)
		if found == nil {
			found = []model.ExtractedLink{}
		}
		return writeOutput(cmd.OutOrStdout(), found, linksFormat)
	},
}

func init() {
	linksCmd.Flags().StringVar(&linksFile, "file", "", "HTML file (- for stdin)")
	linksCmd.Flags().StringVar(&linksBase, "base", "", "URL the HTML was fetched from")
	linksCmd.Flags().StringVar(&linksFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(linksCmd)
}
