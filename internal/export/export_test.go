package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/musiclab/dissect/internal/aggregate"
	"github.com/musiclab/dissect/internal/catalog"
	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/pages"
	"github.com/musiclab/dissect/internal/segment"
)

func testFixtures(t *testing.T) (*pages.Store, *aggregate.Table, *catalog.Catalog) {
	t.Helper()
	tax, err := keywords.LoadTaxonomy()
	if err != nil {
		t.Fatalf("failed to load taxonomy: %v", err)
	}
	cat, err := catalog.Load(tax)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	store := pages.NewStore(map[int]string{
		1: "Chapter 1: Introduction\nการผสมผสาน thang and jazz improvisation",
		2: "Table 2.1: Dataset overview\nmachine learning dataset design",
	})
	table := aggregate.Build(aggregate.Input{
		Pages:    store,
		Chapters: segment.IdentifyChapters(store),
		Captions: segment.IdentifyCaptions(store),
		Matches:  keywords.NewIndexer(tax).FindMusicKeywords(store, nil),
		Catalog:  cat,
	})
	return store, table, cat
}

func writeAll(t *testing.T, dir string) {
	t.Helper()
	store, table, cat := testFixtures(t)
	if err := NewWriter(dir, "dissertation.pdf").WriteAll(store, table, cat); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)

	t.Run("every export file exists", func(t *testing.T) {
		for _, name := range []string{
			PagesFile, ChaptersCSVFile, ChaptersJSONFile, AnalysisFile,
			CatalogCSVFile, CatalogJSONFile, StatisticsCSVFile,
			StatisticsJSONFile, SchemaFile, ExtractedFile, ManifestFile,
		} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("missing export %s: %v", name, err)
			}
		}
	})

	t.Run("pages csv carries one row per page", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, PagesFile))
		if len(rows) != 3 { // header + 2 pages
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if got := rows[0][0]; got != "page" {
			t.Errorf("unexpected header %q", got)
		}
		if rows[1][0] != "1" || rows[2][0] != "2" {
			t.Errorf("pages out of order: %v / %v", rows[1], rows[2])
		}
	})

	t.Run("thai text survives the json export", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(dir, ExtractedFile))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(raw), "การผสมผสาน") {
			t.Error("thai text missing or escaped in extracted json")
		}
		if strings.Contains(string(raw), "\\u0e01") {
			t.Error("thai text was unicode-escaped")
		}
	})

	t.Run("manifest lists every file including itself", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
		if err != nil {
			t.Fatal(err)
		}
		var m Manifest
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("manifest is not valid json: %v", err)
		}
		if m.RunID == "" || m.GeneratedAt == "" {
			t.Errorf("manifest missing provenance: %+v", m)
		}
		if m.Source != "dissertation.pdf" {
			t.Errorf("unexpected source %q", m.Source)
		}
		found := false
		for _, f := range m.Files {
			if f == ManifestFile {
				found = true
			}
		}
		if !found {
			t.Error("manifest does not list itself")
		}
	})

	t.Run("statistics csv ranked by instance count", func(t *testing.T) {
		rows := readCSV(t, filepath.Join(dir, StatisticsCSVFile))
		if len(rows) < 2 {
			t.Fatal("expected statistics rows")
		}
		prev := -1
		for i, row := range rows[1:] {
			n, err := strconv.Atoi(row[2])
			if err != nil {
				t.Fatalf("row %d: bad count %q", i, row[2])
			}
			if prev >= 0 && n > prev {
				t.Errorf("row %d breaks descending order: %d after %d", i, n, prev)
			}
			prev = n
		}
	})
}

func TestWriteAll_Deterministic(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	writeAll(t, dirA)
	writeAll(t, dirB)

	entries, err := os.ReadDir(dirA)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() == ManifestFile {
			continue // run id and timestamp differ between runs
		}
		a, err := os.ReadFile(filepath.Join(dirA, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		if string(a) != string(b) {
			t.Errorf("%s differs between identical runs", e.Name())
		}
	}
}

func TestWriteAll_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	writeAll(t, dir)
	if _, err := os.Stat(filepath.Join(dir, PagesFile)); err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	return rows
}

