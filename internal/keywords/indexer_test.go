package keywords

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/musiclab/dissect/internal/pages"
)

func loadTestTaxonomy(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := LoadTaxonomy()
	if err != nil {
		t.Fatalf("failed to load taxonomy: %v", err)
	}
	return tax
}

func TestLoadTaxonomy(t *testing.T) {
	tax := loadTestTaxonomy(t)

	if got := tax.Categories(); !reflect.DeepEqual(got, Categories) {
		t.Errorf("expected canonical category order, got %v", got)
	}

	for _, cat := range tax.Categories() {
		if len(tax.Terms(cat)) == 0 {
			t.Errorf("category %s has no terms", cat)
		}
		for _, term := range tax.Terms(cat) {
			if term != strings.ToLower(term) {
				t.Errorf("term %q in %s is not lowercase", term, cat)
			}
		}
	}
}

func TestFindMusicKeywords_ThreePageCorpus(t *testing.T) {
	tax := loadTestTaxonomy(t)
	ix := NewIndexer(tax)

	store := pages.NewStore(map[int]string{
		1: "Chapter 1: Introduction\nthang",
		2: "jazz chord jazz chord",
		3: "",
	})

	results := ix.FindMusicKeywords(store, nil)

	t.Run("thai_music matches once on page 1", func(t *testing.T) {
		thai := results[CategoryThaiMusic]
		if len(thai) != 1 {
			t.Fatalf("expected 1 thai_music match, got %d: %+v", len(thai), thai)
		}
		if thai[0].Page != 1 || thai[0].Keyword != "thang" {
			t.Errorf("unexpected match: %+v", thai[0])
		}
	})

	t.Run("jazz matches twice at distinct offsets on page 2", func(t *testing.T) {
		jazz := results[CategoryJazz]
		if len(jazz) != 2 {
			t.Fatalf("expected 2 jazz matches, got %d: %+v", len(jazz), jazz)
		}
		if jazz[0].Offset == jazz[1].Offset {
			t.Errorf("expected distinct offsets, got %d and %d", jazz[0].Offset, jazz[1].Offset)
		}
		for _, m := range jazz {
			if m.Page != 2 {
				t.Errorf("expected page 2, got %d", m.Page)
			}
		}
	})

	t.Run("empty page contributes zero matches", func(t *testing.T) {
		for cat, ms := range results {
			for _, m := range ms {
				if m.Page == 3 {
					t.Errorf("empty page produced a %s match: %+v", cat, m)
				}
			}
		}
	})
}

func TestFindMusicKeywords_CategoryIndependence(t *testing.T) {
	tax := loadTestTaxonomy(t)
	ix := NewIndexer(tax)

	store := pages.NewStore(map[int]string{1: "a jazz fusion with improvisation"})
	results := ix.FindMusicKeywords(store, nil)

	// "jazz" and "improvisation" both land in the jazz list while
	// "fusion" lands in cross_cultural; none suppresses another.
	jazzKeywords := map[string]bool{}
	for _, m := range results[CategoryJazz] {
		jazzKeywords[m.Keyword] = true
	}
	if !jazzKeywords["jazz"] || !jazzKeywords["improvisation"] {
		t.Errorf("expected jazz and improvisation matches, got %v", jazzKeywords)
	}

	cross := results[CategoryCrossCultural]
	if len(cross) != 1 || cross[0].Keyword != "fusion" {
		t.Errorf("expected one cross_cultural fusion match, got %+v", cross)
	}
}

func TestFindMusicKeywords_Unicode(t *testing.T) {
	tax := loadTestTaxonomy(t)
	ix := NewIndexer(tax)

	store := pages.NewStore(map[int]string{
		1: "เครื่องดนตรี พิณ หรือ Phin เป็นพิณพื้นบ้านอีสาน",
	})
	results := ix.FindMusicKeywords(store, nil)

	thai := results[CategoryThaiMusic]
	if len(thai) != 1 {
		t.Fatalf("expected 1 match for Phin, got %d: %+v", len(thai), thai)
	}
	m := thai[0]
	if m.Keyword != "phin" {
		t.Errorf("expected keyword phin, got %q", m.Keyword)
	}
	if !utf8.ValidString(m.Context) {
		t.Errorf("context is not valid UTF-8: %q", m.Context)
	}
	if !strings.Contains(m.Context, "พิณ") {
		t.Errorf("expected Thai script preserved in context, got %q", m.Context)
	}
}

func TestFindMusicKeywords_OffsetsWithinPage(t *testing.T) {
	tax := loadTestTaxonomy(t)
	ix := NewIndexer(tax)

	store := pages.NewStore(map[int]string{
		1: "Jazz harmony and Thai melody, with swing rhythm throughout.",
		2: "ข้อมูล dataset สำหรับ machine learning",
	})
	results := ix.FindMusicKeywords(store, nil)

	for cat, ms := range results {
		for _, m := range ms {
			text, err := store.Get(m.Page)
			if err != nil {
				t.Fatalf("match on unknown page %d", m.Page)
			}
			if m.Offset < 0 || m.End > len(text) || m.Offset >= m.End {
				t.Errorf("%s match span [%d,%d) outside page %d text (len %d)",
					cat, m.Offset, m.End, m.Page, len(text))
			}
			if got := foldASCII(text[m.Offset:m.End]); got != m.Keyword {
				t.Errorf("span does not cover keyword: got %q want %q", got, m.Keyword)
			}
		}
	}
}

func TestFindMusicKeywords_Deterministic(t *testing.T) {
	tax := loadTestTaxonomy(t)
	ix := NewIndexer(tax)

	store := pages.NewStore(map[int]string{
		1: "jazz and thang",
		2: "fusion dataset melody",
		3: "chord progression in modal jazz",
	})

	first := ix.FindMusicKeywords(store, nil)
	second := ix.FindMusicKeywords(store, nil)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated scans over identical input differ")
	}
}

func TestFindMusicKeywords_Progress(t *testing.T) {
	tax := loadTestTaxonomy(t)
	ix := NewIndexer(tax)

	store := pages.NewStore(map[int]string{1: "a", 2: "b", 3: "c"})

	var calls [][2]int
	withProgress := ix.FindMusicKeywords(store, func(current, total int) {
		calls = append(calls, [2]int{current, total})
	})
	without := ix.FindMusicKeywords(store, nil)

	if len(calls) != 3 {
		t.Errorf("expected 3 progress calls, got %d", len(calls))
	}
	if calls[len(calls)-1] != [2]int{3, 3} {
		t.Errorf("expected final call (3,3), got %v", calls[len(calls)-1])
	}
	if !reflect.DeepEqual(withProgress, without) {
		t.Error("progress callback altered scan results")
	}
}

func TestScanPage_NonOverlapping(t *testing.T) {
	t.Run("adjacent occurrences both count", func(t *testing.T) {
		spans := scanPage("jazzjazz", "jazz")
		want := [][2]int{{0, 4}, {4, 8}}
		if !reflect.DeepEqual(spans, want) {
			t.Errorf("expected %v, got %v", want, spans)
		}
	})

	t.Run("overlapping occurrences counted leftmost-first", func(t *testing.T) {
		// "aaa" holds two overlapping "aa"; the scan takes the leftmost
		// and resumes past it, so only one counts.
		spans := scanPage("aaa", "aa")
		if len(spans) != 1 || spans[0] != [2]int{0, 2} {
			t.Errorf("expected single span [0,2), got %v", spans)
		}
	})

	t.Run("no occurrence", func(t *testing.T) {
		if spans := scanPage("silence", "jazz"); len(spans) != 0 {
			t.Errorf("expected no spans, got %v", spans)
		}
	})
}

func TestContextWindow(t *testing.T) {
	t.Run("clips at page boundaries", func(t *testing.T) {
		text := "jazz"
		if got := contextWindow(text, 0, 4); got != "jazz" {
			t.Errorf("expected full text, got %q", got)
		}
	})

	t.Run("newlines flattened", func(t *testing.T) {
		text := "before\njazz\nafter"
		got := contextWindow(text, 7, 11)
		if strings.Contains(got, "\n") {
			t.Errorf("expected flattened context, got %q", got)
		}
	})

	t.Run("bounded radius", func(t *testing.T) {
		long := strings.Repeat("x", 500) + "jazz" + strings.Repeat("y", 500)
		got := contextWindow(long, 500, 504)
		if n := utf8.RuneCountInString(got); n > 2*contextRadius+4 {
			t.Errorf("context too wide: %d runes", n)
		}
	})
}
