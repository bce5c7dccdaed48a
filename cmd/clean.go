package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/site-intel/internal/textclean"
)

var (
	cleanFile          string
	cleanSkipFooterNav bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Extract clean business text from an HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cleanFile == "" {
			return eris.New("--file is required (use - for stdin)")
		}
		html, err := readInput(cmd.InOrStdin(), cleanFile)
		if err != nil {
			return err
		}

		opts := textOptions(cfg)
		if cleanSkipFooterNav {
			opts = append(opts, textclean.WithSkipFooterNav())
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), textclean.ExtractCleanText(html, opts...))
		return err
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanFile, "file", "", "HTML file to clean (- for stdin)")
	cleanCmd.Flags().BoolVar(&cleanSkipFooterNav, "skip-footer-nav", false, "drop <nav> and <footer> blocks")
	rootCmd.AddCommand(cleanCmd)
}
