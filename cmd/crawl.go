package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/site-intel/internal/model"
)

var (
	crawlURL           string
	crawlFormat        string
	crawlCorrelationID string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a company website and print the analysis report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if crawlURL == "" {
			return eris.New("--url is required")
		}

		env, err := initPipeline("crawl")
		if err != nil {
			return err
		}

		rep := env.Pipeline.Run(cmd.Context(), model.Request{
			WebsiteURL:    crawlURL,
			CorrelationID: crawlCorrelationID,
		})
		return writeOutput(cmd.OutOrStdout(), rep, crawlFormat)
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlURL, "url", "", "company website URL")
	crawlCmd.Flags().StringVar(&crawlFormat, "format", "json", "output format: json or yaml")
	crawlCmd.Flags().StringVar(&crawlCorrelationID, "correlation-id", "", "correlation ID (default: generated uuid)")
	rootCmd.AddCommand(crawlCmd)
}
