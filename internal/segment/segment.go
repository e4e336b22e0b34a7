// Package segment detects document structure in the extracted pages:
// chapter boundaries and table/figure captions.
package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/musiclab/dissect/internal/pages"
)

// Chapter is one detected chapter heading.
// Duplicate chapter numbers across pages are preserved as separate
// entries: a dissertation restates headings in its table of contents,
// and both occurrences carry page attribution worth keeping.
type Chapter struct {
	Number    int    `json:"chapter_number"`
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	RawMatch  string `json:"raw_match"`
}

// Caption is a detected table or figure caption.
type Caption struct {
	Kind    string `json:"kind"` // "table" or "figure"
	Number  string `json:"number"`
	Caption string `json:"caption"`
	Page    int    `json:"page"`
}

const (
	// headingLines bounds how far into a page a chapter heading may sit.
	headingLines = 5

	// maxCaptionLen bounds stored caption text, in runes.
	maxCaptionLen = 200
)

// Heading patterns in priority order. The first pattern that matches a
// page's leading text wins; later patterns are not tried for that page.
var chapterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^[ \t]*(?:chapter|บทที่)[ \t]*(\d+)[:. \t]+(.+?)[ \t]*$`),
	regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]+(.+?)[ \t]*$`),
}

var captionPatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"table", regexp.MustCompile(`(?mi)^[ \t]*(?:table|ตาราง)[ \t]*(\d+(?:\.\d+)*)[:. \t]+(.+?)[ \t]*$`)},
	{"figure", regexp.MustCompile(`(?mi)^[ \t]*(?:figure|fig\.|รูป|ภาพ)[ \t]*(\d+(?:\.\d+)*)[:. \t]+(.+?)[ \t]*$`)},
}

// IdentifyChapters scans pages in ascending order for chapter headings.
// Output is ordered by start page. Chapter numbers come from the captured
// numeral when it parses; otherwise they continue monotonically from the
// last assigned number.
func IdentifyChapters(store *pages.Store) []Chapter {
	var chapters []Chapter
	lastNumber := 0

	for _, page := range store.All() {
		leading := leadingText(page.Text)
		for _, re := range chapterPatterns {
			m := re.FindStringSubmatch(leading)
			if m == nil {
				continue
			}

			number, err := strconv.Atoi(m[1])
			if err != nil {
				number = lastNumber + 1
			}
			lastNumber = number

			chapters = append(chapters, Chapter{
				Number:    number,
				Title:     strings.TrimSpace(m[2]),
				StartPage: page.Number,
				RawMatch:  m[0],
			})
			break // first pattern wins for this page
		}
	}

	return chapters
}

// IdentifyCaptions scans every page for table and figure captions.
func IdentifyCaptions(store *pages.Store) []Caption {
	var captions []Caption

	for _, page := range store.All() {
		for _, cp := range captionPatterns {
			for _, m := range cp.re.FindAllStringSubmatch(page.Text, -1) {
				captions = append(captions, Caption{
					Kind:    cp.kind,
					Number:  m[1],
					Caption: truncateRunes(strings.TrimSpace(m[2]), maxCaptionLen),
					Page:    page.Number,
				})
			}
		}
	}

	return captions
}

// leadingText returns the first few lines of a page, where a chapter
// heading would appear.
func leadingText(text string) string {
	lines := strings.SplitN(text, "\n", headingLines+1)
	if len(lines) > headingLines {
		lines = lines[:headingLines]
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
