package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/musiclab/dissect/internal/aggregate"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/config"
	"github.com/musiclab/dissect/internal/decode"
	"github.com/musiclab/dissect/internal/explorer"
	"github.com/musiclab/dissect/internal/home"
	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/segment"
	"github.com/musiclab/dissect/internal/server"
)

var (
	serveHost string
	servePort string
	servePDF  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dissect dashboard server",
	Long: `Start the dissect HTTP server over an analyzed dissertation.

The server loads the PDF, runs the analysis pipeline in memory, and
serves the dataset through a JSON API:
  - /health                        - Server health check
  - /api/summary                   - Dataset overview
  - /api/pages, /api/pages/{n}     - Page listing and content
  - /api/search?q=...              - Full-text search
  - /api/chapters                  - Detected chapters
  - /api/features, /api/features/stats
  - /api/categories/{name}/pages

Examples:
  dissect serve                    # Start on default port 8575
  dissect serve --port 3000        # Start on custom port
  dissect serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()
		cfg := mgr.Get()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		pdfPath := cfg.PDFPath
		if servePDF != "" {
			pdfPath = servePDF
		}

		// Run the analysis pipeline in memory before serving.
		decoder := decode.NewPDFDecoder(pdfPath, logger)
		result, err := decoder.Decode(ctx, nil)
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}

		tax, err := keywords.LoadTaxonomy()
		if err != nil {
			return err
		}
		cat, err := catalog.Load(tax)
		if err != nil {
			return err
		}
		table := aggregate.Build(aggregate.Input{
			Pages:    result.Store,
			Chapters: segment.IdentifyChapters(result.Store),
			Captions: segment.IdentifyCaptions(result.Store),
			Matches:  keywords.NewIndexer(tax).FindMusicKeywords(result.Store, nil),
			Warnings: result.Warnings,
			Catalog:  cat,
		})
		logger.Info("dataset loaded", "pages", result.Store.Count(), "rows", len(table.Rows))

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Dataset:       explorer.NewDataset(result.Store, table, cat),
			ConfigManager: mgr,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8575", "Port to listen on")
	serveCmd.Flags().StringVar(&servePDF, "pdf", "", "PDF file to analyze (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
