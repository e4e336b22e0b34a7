// Package aggregate joins the segmenter, indexer, and catalog outputs
// into the page-level analysis table consumed by explorers and
// exporters. Build is a pure function of its inputs: re-running it on
// identical input yields identical output, row for row.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/decode"
	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/pages"
	"github.com/musiclab/dissect/internal/segment"
)

// topFeatures is how many ranked features the summary reports.
const topFeatures = 10

// Row is one (page, category) pairing with at least one keyword match.
type Row struct {
	Page                 int               `json:"page"`
	Category             keywords.Category `json:"category"`
	Keywords             []string          `json:"keywords"`
	Contexts             []string          `json:"contexts"`
	MatchCount           int               `json:"match_count"`
	WordCount            int               `json:"word_count"`
	ThaiMusicPresent     bool              `json:"thai_music_present"`
	JazzPresent          bool              `json:"jazz_present"`
	CrossCulturalPresent bool              `json:"cross_cultural_present"`
	MLDatasetPresent     bool              `json:"ml_dataset_present"`
	MusicTheoryPresent   bool              `json:"music_theory_present"`
}

// Input carries everything the aggregator joins.
type Input struct {
	Pages    *pages.Store
	Chapters []segment.Chapter
	Captions []segment.Caption
	Matches  map[keywords.Category][]keywords.Match
	Warnings []decode.Warning
	Catalog  *catalog.Catalog
}

// Table is the joined analysis output.
type Table struct {
	Rows     []Row                      `json:"rows"`
	Chapters []segment.Chapter          `json:"chapters"`
	Captions []segment.Caption          `json:"captions"`
	Stats    []catalog.FeatureStatistic `json:"feature_statistics"`
	Warnings []decode.Warning           `json:"warnings"`

	totalPages int
	matches    map[keywords.Category][]keywords.Match
}

// Build derives the analysis table. Rows are ordered by (page, category
// scan order); presence booleans are computed per page across all
// categories.
func Build(in Input) *Table {
	byPage := make(map[int]map[keywords.Category][]keywords.Match)
	for _, cat := range keywords.Categories {
		for _, m := range in.Matches[cat] {
			if byPage[m.Page] == nil {
				byPage[m.Page] = make(map[keywords.Category][]keywords.Match)
			}
			byPage[m.Page][cat] = append(byPage[m.Page][cat], m)
		}
	}

	var rows []Row
	for _, page := range in.Pages.All() {
		pageMatches := byPage[page.Number]
		if len(pageMatches) == 0 {
			continue
		}
		present := func(cat keywords.Category) bool { return len(pageMatches[cat]) > 0 }

		for _, cat := range keywords.Categories {
			ms := pageMatches[cat]
			if len(ms) == 0 {
				continue
			}
			row := Row{
				Page:                 page.Number,
				Category:             cat,
				MatchCount:           len(ms),
				WordCount:            page.WordCount,
				ThaiMusicPresent:     present(keywords.CategoryThaiMusic),
				JazzPresent:          present(keywords.CategoryJazz),
				CrossCulturalPresent: present(keywords.CategoryCrossCultural),
				MLDatasetPresent:     present(keywords.CategoryMLDataset),
				MusicTheoryPresent:   present(keywords.CategoryMusicTheory),
			}
			for _, m := range ms {
				row.Keywords = append(row.Keywords, m.Keyword)
				row.Contexts = append(row.Contexts, m.Context)
			}
			rows = append(rows, row)
		}
	}

	var stats []catalog.FeatureStatistic
	if in.Catalog != nil {
		stats = in.Catalog.Statistics(in.Matches)
	}

	return &Table{
		Rows:       rows,
		Chapters:   in.Chapters,
		Captions:   in.Captions,
		Stats:      stats,
		Warnings:   in.Warnings,
		totalPages: in.Pages.Count(),
		matches:    in.Matches,
	}
}

// CategoryPageCounts returns, per category, the number of distinct pages
// with at least one match.
func (t *Table) CategoryPageCounts() map[keywords.Category]int {
	counts := make(map[keywords.Category]int, len(keywords.Categories))
	for _, cat := range keywords.Categories {
		seen := make(map[int]struct{})
		for _, m := range t.matches[cat] {
			seen[m.Page] = struct{}{}
		}
		counts[cat] = len(seen)
	}
	return counts
}

// Summary renders the human-readable analysis report.
func (t *Table) Summary() string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "DISSERTATION ANALYSIS SUMMARY")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Total pages:    %d\n", t.totalPages)
	fmt.Fprintf(&b, "Chapters found: %d\n", len(t.Chapters))
	fmt.Fprintf(&b, "Tables found:   %d\n", t.captionCount("table"))
	fmt.Fprintf(&b, "Figures found:  %d\n", t.captionCount("figure"))

	fmt.Fprintln(&b, "\nKeyword analysis:")
	pageCounts := t.CategoryPageCounts()
	for _, cat := range keywords.Categories {
		fmt.Fprintf(&b, "  %-15s %5d occurrences across %3d pages\n",
			cat, len(t.matches[cat]), pageCounts[cat])
	}

	fmt.Fprintln(&b, "\nTop features:")
	for i, s := range t.Stats {
		if i >= topFeatures {
			break
		}
		fmt.Fprintf(&b, "  %-22s %5d instances on %3d pages\n",
			s.FeatureName, s.InstanceCount, s.UniquePages)
	}

	if len(t.Chapters) > 0 {
		fmt.Fprintln(&b, "\nChapters:")
		for _, ch := range t.Chapters {
			fmt.Fprintf(&b, "  Chapter %d: %s (page %d)\n", ch.Number, ch.Title, ch.StartPage)
		}
	}

	if len(t.Warnings) > 0 {
		fmt.Fprintf(&b, "\nDecode warnings (%d):\n", len(t.Warnings))
		for _, w := range t.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}

	fmt.Fprintln(&b, line)
	return b.String()
}

func (t *Table) captionCount(kind string) int {
	n := 0
	for _, c := range t.Captions {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
