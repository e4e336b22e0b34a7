// Package explorer provides read-side queries over a completed analysis
// run: full-text search, page lookup, and per-category navigation. It
// is the data layer behind the HTTP API and the interactive commands.
package explorer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/musiclab/dissect/internal/aggregate"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/pages"
	"github.com/musiclab/dissect/internal/segment"
)

// searchContextRadius bounds the snippet shown around a search hit, in
// runes per side.
const searchContextRadius = 60

// SearchHit is one occurrence of a search query.
type SearchHit struct {
	Page    int    `json:"page"`
	Offset  int    `json:"offset"`
	Snippet string `json:"snippet"`
}

// PageView is the API-facing shape of one page.
type PageView struct {
	Number     int                 `json:"page"`
	Text       string              `json:"text"`
	WordCount  int                 `json:"word_count"`
	CharCount  int                 `json:"char_count"`
	Categories []keywords.Category `json:"categories"`
}

// Summary is the top-level dataset overview.
type Summary struct {
	TotalPages    int                        `json:"total_pages"`
	TotalChapters int                        `json:"total_chapters"`
	TotalTables   int                        `json:"total_tables"`
	TotalFigures  int                        `json:"total_figures"`
	Categories    map[keywords.Category]int  `json:"category_page_counts"`
	TopFeatures   []catalog.FeatureStatistic `json:"top_features"`
}

// Dataset is an in-memory view over one analysis run.
type Dataset struct {
	store    *pages.Store
	table    *aggregate.Table
	catalog  *catalog.Catalog
	catPages map[keywords.Category][]int
	pageCats map[int][]keywords.Category
}

// NewDataset indexes the analysis outputs for querying.
func NewDataset(store *pages.Store, table *aggregate.Table, cat *catalog.Catalog) *Dataset {
	d := &Dataset{
		store:    store,
		table:    table,
		catalog:  cat,
		catPages: make(map[keywords.Category][]int),
		pageCats: make(map[int][]keywords.Category),
	}
	for _, row := range table.Rows {
		d.catPages[row.Category] = append(d.catPages[row.Category], row.Page)
		d.pageCats[row.Page] = append(d.pageCats[row.Page], row.Category)
	}
	for cat, nums := range d.catPages {
		sort.Ints(nums)
		d.catPages[cat] = nums
	}
	return d
}

// Summary returns the dataset overview with the top ten features.
func (d *Dataset) Summary() Summary {
	top := d.table.Stats
	if len(top) > 10 {
		top = top[:10]
	}
	tables, figures := 0, 0
	for _, c := range d.table.Captions {
		switch c.Kind {
		case "table":
			tables++
		case "figure":
			figures++
		}
	}
	return Summary{
		TotalPages:    d.store.Count(),
		TotalChapters: len(d.table.Chapters),
		TotalTables:   tables,
		TotalFigures:  figures,
		Categories:    d.table.CategoryPageCounts(),
		TopFeatures:   top,
	}
}

// Pages lists every page without text, for the overview endpoints.
func (d *Dataset) Pages() []PageView {
	all := d.store.All()
	out := make([]PageView, 0, len(all))
	for _, p := range all {
		out = append(out, PageView{
			Number:     p.Number,
			WordCount:  p.WordCount,
			CharCount:  p.CharCount,
			Categories: d.pageCats[p.Number],
		})
	}
	return out
}

// PageContent returns one page with its full text.
func (d *Dataset) PageContent(num int) (PageView, error) {
	p, err := d.store.Page(num)
	if err != nil {
		return PageView{}, err
	}
	return PageView{
		Number:     p.Number,
		Text:       p.Text,
		WordCount:  p.WordCount,
		CharCount:  p.CharCount,
		Categories: d.pageCats[p.Number],
	}, nil
}

// Chapters returns the detected chapter list.
func (d *Dataset) Chapters() []segment.Chapter {
	return d.table.Chapters
}

// Features returns the static feature catalog rows.
func (d *Dataset) Features() []catalog.CatalogRow {
	return d.catalog.GenerateFeatureCatalog()
}

// FeatureStats returns the full ranked statistics.
func (d *Dataset) FeatureStats() []catalog.FeatureStatistic {
	return d.table.Stats
}

// CategoryPages returns the sorted distinct pages on which the given
// keyword category matched. Unknown categories yield an empty list.
func (d *Dataset) CategoryPages(cat keywords.Category) []int {
	nums := d.catPages[cat]
	out := make([]int, len(nums))
	copy(out, nums)
	return out
}

// SearchContent finds every occurrence of query across all pages. The
// default comparison folds ASCII case only, matching the keyword scan;
// caseSensitive switches to exact byte comparison.
func (d *Dataset) SearchContent(query string, caseSensitive bool) []SearchHit {
	if query == "" {
		return nil
	}

	needle := query
	if !caseSensitive {
		needle = foldASCII(query)
	}

	var hits []SearchHit
	for _, p := range d.store.All() {
		haystack := p.Text
		if !caseSensitive {
			haystack = foldASCII(haystack)
		}

		from := 0
		for {
			i := strings.Index(haystack[from:], needle)
			if i < 0 {
				break
			}
			offset := from + i
			hits = append(hits, SearchHit{
				Page:    p.Number,
				Offset:  offset,
				Snippet: snippet(p.Text, offset, offset+len(needle)),
			})
			from = offset + len(needle)
		}
	}
	return hits
}

// snippet extracts the rune-aligned window around a hit span.
func snippet(text string, start, end int) string {
	lo := start
	for r := 0; r < searchContextRadius && lo > 0; r++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for r := 0; r < searchContextRadius && hi < len(text); r++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return text[lo:hi]
}

// foldASCII lowercases ASCII letters without changing byte length, so
// hit offsets remain valid in the original text.
func foldASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
