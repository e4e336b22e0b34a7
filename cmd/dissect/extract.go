package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/aggregate"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/config"
	"github.com/musiclab/dissect/internal/decode"
	"github.com/musiclab/dissect/internal/enrich"
	"github.com/musiclab/dissect/internal/export"
	"github.com/musiclab/dissect/internal/home"
	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/segment"
)

var (
	extractPDF string
	extractOut string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the full analysis pipeline on a dissertation PDF",
	Long: `Extract runs the complete pipeline: PDF decoding, chapter and caption
detection, keyword indexing, feature statistics, and dataset export.

All dataset files are deterministic; manifest.json records the run ID
and timestamp.

Examples:
  dissect extract                          # Use pdf_path from config
  dissect extract --pdf thesis.pdf         # Explicit input
  dissect extract --out ./dataset          # Explicit output directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		pdfPath := cfg.PDFPath
		if extractPDF != "" {
			pdfPath = extractPDF
		}
		outDir := cfg.OutputDir
		if extractOut != "" {
			outDir = extractOut
		}

		// Decode
		decoder := decode.NewPDFDecoder(pdfPath, logger)
		result, err := decoder.Decode(ctx, func(current, total int) {
			if current%50 == 0 || current == total {
				logger.Info("decoding", "page", current, "total", total)
			}
		})
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}

		// Structure
		chapters := segment.IdentifyChapters(result.Store)
		captions := segment.IdentifyCaptions(result.Store)
		logger.Info("structure detected", "chapters", len(chapters), "captions", len(captions))

		// Keywords
		tax, err := keywords.LoadTaxonomy()
		if err != nil {
			return err
		}
		matches := keywords.NewIndexer(tax).FindMusicKeywords(result.Store, func(current, total int) {
			if current%50 == 0 || current == total {
				logger.Info("indexing keywords", "page", current, "total", total)
			}
		})

		// Catalog and aggregation
		cat, err := catalog.Load(tax)
		if err != nil {
			return err
		}
		table := aggregate.Build(aggregate.Input{
			Pages:    result.Store,
			Chapters: chapters,
			Captions: captions,
			Matches:  matches,
			Warnings: result.Warnings,
			Catalog:  cat,
		})

		// Export
		writer := export.NewWriter(outDir, filepath.Base(pdfPath))
		if err := writer.WriteAll(result.Store, table, cat); err != nil {
			return err
		}
		logger.Info("dataset written", "dir", outDir)

		fmt.Print(table.Summary())

		if cfg.Enrichment.Enabled {
			return runEnrichment(cmd, cfg, h, cat, logger)
		}
		return nil
	},
}

// runEnrichment generates LLM commentary for every catalog feature and
// writes it under the home enrichment directory, apart from the
// deterministic dataset.
func runEnrichment(cmd *cobra.Command, cfg *config.Config, h *home.Dir, cat *catalog.Catalog, logger *slog.Logger) error {
	enricher, err := enrich.NewOpenAIEnricher(enrich.Config{
		APIKey: cfg.ResolveAPIKey(),
		Model:  cfg.Enrichment.Model,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(h.EnrichmentDir(), 0o755); err != nil {
		return err
	}

	var analyses []enrich.Analysis
	for _, def := range cat.FeatureDefinitions() {
		analysis, err := enricher.EnrichFeature(cmd.Context(), def)
		if err != nil {
			logger.Warn("enrichment failed", "feature", def.Name, "error", err)
			continue
		}
		analyses = append(analyses, *analysis)
		logger.Info("feature enriched", "feature", def.Name, "request_id", analysis.RequestID)
	}

	path := filepath.Join(h.EnrichmentDir(), "analyses.json")
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	extractCmd.Flags().StringVar(&extractPDF, "pdf", "", "PDF file to analyze (overrides config)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (overrides config)")

	rootCmd.AddCommand(extractCmd)
}
