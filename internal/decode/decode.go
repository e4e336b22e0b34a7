// Package decode turns the source PDF into per-page text.
//
// The decoder is the upstream collaborator for the analysis pipeline: it
// hands back one text blob per page. A page that fails to decode is
// substituted with empty text and recorded as a Warning; the pass never
// aborts on a single bad page.
package decode

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/musiclab/dissect/internal/pages"
)

// ProgressFunc is invoked with (current, total) as pages are decoded.
// Informational only; a nil callback does not alter results.
type ProgressFunc func(current, total int)

// Warning records a page that yielded no text due to an upstream decode
// failure. Warnings are aggregated and surfaced in the summary, never
// silently dropped.
type Warning struct {
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s", w.Page, w.Reason)
}

// Result is the output of a decode pass.
type Result struct {
	Store    *pages.Store
	Warnings []Warning
}

// Decoder produces the per-page text mapping for the pipeline.
type Decoder interface {
	Decode(ctx context.Context, progress ProgressFunc) (*Result, error)
}

// PDFDecoder decodes a PDF file on disk page by page.
type PDFDecoder struct {
	path   string
	logger *slog.Logger
}

// NewPDFDecoder creates a decoder for the given PDF path.
func NewPDFDecoder(path string, logger *slog.Logger) *PDFDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFDecoder{path: path, logger: logger}
}

// Decode extracts text from every page of the PDF.
// Pages that fail extraction get empty text and a recorded Warning.
func (d *PDFDecoder) Decode(ctx context.Context, progress ProgressFunc) (*Result, error) {
	f, reader, err := pdf.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", d.path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("PDF %s contains no pages", d.path)
	}

	// Cross-check the page count with a second parser. A mismatch is a
	// sign of a damaged cross-reference table, worth logging up front.
	if count, err := pageCount(d.path); err == nil && count != total {
		d.logger.Warn("page count mismatch between parsers",
			"path", d.path, "reader", total, "pdfcpu", count)
	}

	texts := make(map[int]string, total)
	var warnings []Warning

	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := extractPage(reader, num)
		if err != nil {
			warnings = append(warnings, Warning{Page: num, Reason: err.Error()})
			d.logger.Warn("page decode failed", "page", num, "error", err)
			text = ""
		}
		texts[num] = text

		if progress != nil {
			progress(num, total)
		}
	}

	d.logger.Info("decode complete", "pages", total, "warnings", len(warnings))
	return &Result{Store: pages.NewStore(texts), Warnings: warnings}, nil
}

// extractPage pulls plain text from one page. The pdf library panics on
// some malformed content streams, so recover and report those as errors.
func extractPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content panic: %v", r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page object is null")
	}
	return page.GetPlainText(nil)
}

// pageCount returns the page count reported by pdfcpu.
func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return api.PageCount(f, nil)
}
