package main

import (
	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/api"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/keywords"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the static feature catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return api.Output(cat.GenerateFeatureCatalog())
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the dataset schema document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return api.Output(cat.Schema())
	},
}

func loadCatalog() (*catalog.Catalog, error) {
	tax, err := keywords.LoadTaxonomy()
	if err != nil {
		return nil, err
	}
	return catalog.Load(tax)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(schemaCmd)
}
