package keywords

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/musiclab/dissect/internal/pages"
)

// contextRadius is the number of runes of surrounding text captured on
// each side of a match, clipped at page boundaries.
const contextRadius = 100

// ProgressFunc is invoked with (current, total) as pages are scanned.
// Informational only; a nil callback does not alter results.
type ProgressFunc func(current, total int)

// Match is one keyword occurrence on a page. Repeats of the same keyword
// at different offsets are distinct matches. Offsets are byte positions
// into the page text; Offset and End always bound the literal matched
// span.
type Match struct {
	Page     int      `json:"page"`
	Category Category `json:"category"`
	Keyword  string   `json:"keyword"`
	Offset   int      `json:"offset"`
	End      int      `json:"end"`
	Context  string   `json:"context"`
}

// Indexer scans pages against a taxonomy.
type Indexer struct {
	tax *Taxonomy
}

// NewIndexer creates an Indexer over the given taxonomy.
func NewIndexer(tax *Taxonomy) *Indexer {
	return &Indexer{tax: tax}
}

// FindMusicKeywords scans every page for every taxonomy term and returns
// per-category match lists sorted by (page, offset, keyword). Matching is
// case-insensitive; each keyword is scanned leftmost-first without
// re-scanning inside a prior occurrence of the same keyword. Categories
// are independent: one span may contribute matches to several categories
// at once.
func (ix *Indexer) FindMusicKeywords(store *pages.Store, progress ProgressFunc) map[Category][]Match {
	results := make(map[Category][]Match, len(ix.tax.Categories()))
	for _, cat := range ix.tax.Categories() {
		results[cat] = []Match{}
	}

	all := store.All()
	for i, page := range all {
		lowered := foldASCII(page.Text)
		for _, cat := range ix.tax.Categories() {
			for _, keyword := range ix.tax.Terms(cat) {
				for _, span := range scanPage(lowered, keyword) {
					results[cat] = append(results[cat], Match{
						Page:     page.Number,
						Category: cat,
						Keyword:  keyword,
						Offset:   span[0],
						End:      span[1],
						Context:  contextWindow(page.Text, span[0], span[1]),
					})
				}
			}
		}
		if progress != nil {
			progress(i+1, len(all))
		}
	}

	for cat := range results {
		ms := results[cat]
		sort.SliceStable(ms, func(a, b int) bool {
			if ms[a].Page != ms[b].Page {
				return ms[a].Page < ms[b].Page
			}
			if ms[a].Offset != ms[b].Offset {
				return ms[a].Offset < ms[b].Offset
			}
			return ms[a].Keyword < ms[b].Keyword
		})
	}
	return results
}

// scanPage returns the [start, end) byte spans of every non-overlapping
// occurrence of keyword in the folded page text, leftmost first.
func scanPage(lowered, keyword string) [][2]int {
	var spans [][2]int
	from := 0
	for {
		idx := strings.Index(lowered[from:], keyword)
		if idx < 0 {
			return spans
		}
		start := from + idx
		end := start + len(keyword)
		spans = append(spans, [2]int{start, end})
		from = end
	}
}

// contextWindow extracts up to contextRadius runes either side of the
// matched span, stepping by whole runes so Thai script around an ASCII
// keyword is never split mid-codepoint.
func contextWindow(text string, start, end int) string {
	s := start
	for i := 0; i < contextRadius && s > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:s])
		s -= size
	}
	e := end
	for i := 0; i < contextRadius && e < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[e:])
		e += size
	}
	return strings.TrimSpace(strings.ReplaceAll(text[s:e], "\n", " "))
}

// foldASCII lowercases only the ASCII letters of s. Taxonomy terms are
// ASCII, and byte-wise folding keeps every match offset valid in the
// original mixed-script text.
func foldASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
