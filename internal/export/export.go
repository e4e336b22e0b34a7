// Package export writes the analysis outputs to disk as CSV and JSON.
//
// Every table file is a deterministic function of the analysis inputs:
// two runs over the same document produce byte-identical files. The one
// exception is manifest.json, which carries the run ID and timestamp
// and is the only file allowed to differ between runs.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/musiclab/dissect/internal/aggregate"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/pages"
)

// File names under the output directory.
const (
	PagesFile          = "pages.csv"
	ChaptersCSVFile    = "chapters.csv"
	ChaptersJSONFile   = "chapters.json"
	AnalysisFile       = "analysis.csv"
	CatalogCSVFile     = "feature_catalog.csv"
	CatalogJSONFile    = "feature_catalog.json"
	StatisticsCSVFile  = "feature_statistics.csv"
	StatisticsJSONFile = "feature_statistics.json"
	SchemaFile         = "schema.json"
	ExtractedFile      = "dissertation_extracted.json"
	ManifestFile       = "manifest.json"
)

// Manifest records run provenance. It is the only non-deterministic
// export; nothing downstream of the dataset may depend on it.
type Manifest struct {
	RunID       string   `json:"run_id"`
	GeneratedAt string   `json:"generated_at"`
	Source      string   `json:"source"`
	Files       []string `json:"files"`
}

// Writer exports the pipeline outputs into a directory.
type Writer struct {
	dir    string
	source string
}

// NewWriter creates a writer rooted at dir. source names the input
// document and is recorded in the manifest.
func NewWriter(dir, source string) *Writer {
	return &Writer{dir: dir, source: source}
}

// WriteAll writes every export file and finishes with the manifest.
func (w *Writer) WriteAll(store *pages.Store, table *aggregate.Table, cat *catalog.Catalog) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", w.dir, err)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{PagesFile, func() error { return w.writePages(store) }},
		{ChaptersCSVFile, func() error { return w.writeChaptersCSV(table) }},
		{ChaptersJSONFile, func() error { return w.writeJSON(ChaptersJSONFile, table.Chapters) }},
		{AnalysisFile, func() error { return w.writeAnalysis(table) }},
		{CatalogCSVFile, func() error { return w.writeCatalogCSV(cat) }},
		{CatalogJSONFile, func() error { return w.writeJSON(CatalogJSONFile, cat.GenerateFeatureCatalog()) }},
		{StatisticsCSVFile, func() error { return w.writeStatisticsCSV(table) }},
		{StatisticsJSONFile, func() error { return w.writeJSON(StatisticsJSONFile, table.Stats) }},
		{SchemaFile, func() error { return w.writeJSON(SchemaFile, cat.Schema()) }},
		{ExtractedFile, func() error { return w.writeExtracted(store, table) }},
	}

	written := make([]string, 0, len(steps)+1)
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to write %s: %w", step.name, err)
		}
		written = append(written, step.name)
	}

	manifest := Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      w.source,
		Files:       append(written, ManifestFile),
	}
	if err := w.writeJSON(ManifestFile, manifest); err != nil {
		return fmt.Errorf("failed to write %s: %w", ManifestFile, err)
	}
	return nil
}

func (w *Writer) writePages(store *pages.Store) error {
	return w.writeCSV(PagesFile, []string{"page", "text", "word_count", "char_count"},
		func(out *csv.Writer) error {
			for _, p := range store.All() {
				row := []string{
					strconv.Itoa(p.Number),
					p.Text,
					strconv.Itoa(p.WordCount),
					strconv.Itoa(p.CharCount),
				}
				if err := out.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

func (w *Writer) writeChaptersCSV(table *aggregate.Table) error {
	return w.writeCSV(ChaptersCSVFile, []string{"chapter_number", "title", "start_page"},
		func(out *csv.Writer) error {
			for _, ch := range table.Chapters {
				row := []string{strconv.Itoa(ch.Number), ch.Title, strconv.Itoa(ch.StartPage)}
				if err := out.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

func (w *Writer) writeAnalysis(table *aggregate.Table) error {
	header := []string{
		"page", "category", "keywords", "contexts", "match_count", "word_count",
		"thai_music_present", "jazz_present", "cross_cultural_present",
		"ml_dataset_present", "music_theory_present",
	}
	return w.writeCSV(AnalysisFile, header, func(out *csv.Writer) error {
		for _, r := range table.Rows {
			row := []string{
				strconv.Itoa(r.Page),
				string(r.Category),
				strings.Join(r.Keywords, "; "),
				strings.Join(r.Contexts, " | "),
				strconv.Itoa(r.MatchCount),
				strconv.Itoa(r.WordCount),
				strconv.FormatBool(r.ThaiMusicPresent),
				strconv.FormatBool(r.JazzPresent),
				strconv.FormatBool(r.CrossCulturalPresent),
				strconv.FormatBool(r.MLDatasetPresent),
				strconv.FormatBool(r.MusicTheoryPresent),
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) writeCatalogCSV(cat *catalog.Catalog) error {
	return w.writeCSV(CatalogCSVFile, []string{"feature_name", "category", "description", "sub_types"},
		func(out *csv.Writer) error {
			for _, r := range cat.GenerateFeatureCatalog() {
				row := []string{r.FeatureName, string(r.Category), r.Description, r.SubTypes}
				if err := out.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

func (w *Writer) writeStatisticsCSV(table *aggregate.Table) error {
	return w.writeCSV(StatisticsCSVFile, []string{"feature_name", "category", "instance_count", "unique_pages"},
		func(out *csv.Writer) error {
			for _, s := range table.Stats {
				row := []string{
					s.FeatureName,
					string(s.Category),
					strconv.Itoa(s.InstanceCount),
					strconv.Itoa(s.UniquePages),
				}
				if err := out.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
}

// extractedDocument is the single-file JSON export of the whole run.
type extractedDocument struct {
	Source   string           `json:"source"`
	Pages    []pages.Page     `json:"pages"`
	Analysis *aggregate.Table `json:"analysis"`
}

func (w *Writer) writeExtracted(store *pages.Store, table *aggregate.Table) error {
	doc := extractedDocument{
		Source:   w.source,
		Pages:    store.All(),
		Analysis: table,
	}
	return w.writeJSON(ExtractedFile, doc)
}

func (w *Writer) writeCSV(name string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	out := csv.NewWriter(f)
	if err := out.Write(header); err != nil {
		return err
	}
	if err := body(out); err != nil {
		return err
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return err
	}
	return f.Close()
}

// writeJSON marshals v with indentation. Encoding does not escape
// non-ASCII, so Thai text stays readable in the exports.
func (w *Writer) writeJSON(name string, v any) error {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}
