package main

import (
	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dissect",
	Short: "Dissertation analysis pipeline for a Thai-jazz music dataset",
	Long: `Dissect extracts per-page text from a music dissertation PDF and turns
it into a structured dataset for machine learning research.

The pipeline includes:
  - Page-by-page PDF text extraction
  - Chapter and table/figure caption detection
  - Keyword indexing across five musical categories
  - Feature cataloging with ranked statistics
  - CSV/JSON dataset export with a schema document`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.dissect/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "dissect home directory (default: ~/.dissect)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
