package catalog

import (
	"errors"
	"testing"

	"github.com/musiclab/dissect/internal/keywords"
	"github.com/musiclab/dissect/internal/pages"
)

func loadAll(t *testing.T) (*keywords.Taxonomy, *Catalog) {
	t.Helper()
	tax, err := keywords.LoadTaxonomy()
	if err != nil {
		t.Fatalf("failed to load taxonomy: %v", err)
	}
	cat, err := Load(tax)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return tax, cat
}

func TestLoad(t *testing.T) {
	tax, cat := loadAll(t)

	t.Run("feature definitions never empty", func(t *testing.T) {
		if len(cat.FeatureDefinitions()) == 0 {
			t.Fatal("expected feature definitions")
		}
	})

	t.Run("mapping is total over the taxonomy", func(t *testing.T) {
		for _, kwCat := range tax.Categories() {
			for _, term := range tax.Terms(kwCat) {
				if _, ok := cat.FeatureFor(term); !ok {
					t.Errorf("keyword %q (%s) has no feature mapping", term, kwCat)
				}
			}
		}
	})

	t.Run("variants map many-to-one", func(t *testing.T) {
		for _, kw := range []string{"improvisation", "improvise", "improv"} {
			name, ok := cat.FeatureFor(kw)
			if !ok || name != "improvisation" {
				t.Errorf("expected %q to map to improvisation, got %q", kw, name)
			}
		}
	})
}

func TestCheckTotality_UnmappedKeyword(t *testing.T) {
	tax, cat := loadAll(t)
	_ = tax

	// A catalog missing a mapping must fail with ErrUnmappedKeyword.
	broken := &Catalog{
		features:       cat.features,
		byName:         cat.byName,
		keywordFeature: map[string]string{},
	}
	taxFull, err := keywords.LoadTaxonomy()
	if err != nil {
		t.Fatalf("failed to load taxonomy: %v", err)
	}
	if err := broken.checkTotality(taxFull); !errors.Is(err, ErrUnmappedKeyword) {
		t.Errorf("expected ErrUnmappedKeyword, got %v", err)
	}
}

func TestGenerateFeatureCatalog(t *testing.T) {
	_, cat := loadAll(t)

	rows := cat.GenerateFeatureCatalog()
	if len(rows) != len(cat.FeatureDefinitions()) {
		t.Fatalf("expected one row per feature, got %d", len(rows))
	}
	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.FeatureName] {
			t.Errorf("duplicate feature row %q", row.FeatureName)
		}
		seen[row.FeatureName] = true
		if row.SubTypes == "" {
			t.Errorf("feature %q has empty sub_types cell", row.FeatureName)
		}
	}
}

func TestStatistics(t *testing.T) {
	tax, cat := loadAll(t)
	ix := keywords.NewIndexer(tax)

	t.Run("sum property against raw matches", func(t *testing.T) {
		store := pages.NewStore(map[int]string{
			1: "jazz and more jazz",
			2: "thang appears here",
			3: "jazz again",
		})
		matches := ix.FindMusicKeywords(store, nil)
		stats := cat.Statistics(matches)

		byName := map[string]FeatureStatistic{}
		for _, s := range stats {
			byName[s.FeatureName] = s
		}

		if s := byName["jazz_styles"]; s.InstanceCount != 3 || s.UniquePages != 2 {
			t.Errorf("jazz_styles: expected 3 instances on 2 pages, got %+v", s)
		}
		if s := byName["thang"]; s.InstanceCount != 1 || s.UniquePages != 1 {
			t.Errorf("thang: expected 1 instance on 1 page, got %+v", s)
		}
	})

	t.Run("overlapping variants of one feature count once", func(t *testing.T) {
		// "chord progression" contains "chord"; both keywords map to
		// chord_types, so the span contributes a single instance.
		store := pages.NewStore(map[int]string{1: "a chord progression"})
		stats := cat.Statistics(ix.FindMusicKeywords(store, nil))
		for _, s := range stats {
			if s.FeatureName == "chord_types" {
				if s.InstanceCount != 1 {
					t.Errorf("expected 1 deduped instance, got %d", s.InstanceCount)
				}
				return
			}
		}
		t.Fatal("chord_types missing from statistics")
	})

	t.Run("distinct features on overlapping spans both count", func(t *testing.T) {
		// "jazz harmony" carries "jazz" (jazz_styles) and the full term
		// (chord_types); different features, both counted.
		store := pages.NewStore(map[int]string{1: "jazz harmony"})
		stats := cat.Statistics(ix.FindMusicKeywords(store, nil))
		counts := map[string]int{}
		for _, s := range stats {
			counts[s.FeatureName] = s.InstanceCount
		}
		if counts["jazz_styles"] != 1 {
			t.Errorf("expected jazz_styles 1, got %d", counts["jazz_styles"])
		}
		// chord_types sees "jazz harmony" and the bare "harmony" inside
		// it; overlap dedup keeps one.
		if counts["chord_types"] != 1 {
			t.Errorf("expected chord_types 1, got %d", counts["chord_types"])
		}
	})

	t.Run("zero-count features included and ranked last", func(t *testing.T) {
		store := pages.NewStore(map[int]string{1: "jazz"})
		stats := cat.Statistics(ix.FindMusicKeywords(store, nil))
		if len(stats) != len(cat.FeatureDefinitions()) {
			t.Fatalf("expected all features present, got %d", len(stats))
		}
		for i := 1; i < len(stats); i++ {
			prev, cur := stats[i-1], stats[i]
			if prev.InstanceCount < cur.InstanceCount {
				t.Errorf("ranking broken at %d: %+v before %+v", i, prev, cur)
			}
			if prev.InstanceCount == cur.InstanceCount && prev.FeatureName > cur.FeatureName {
				t.Errorf("tie-break broken at %d: %q before %q", i, prev.FeatureName, cur.FeatureName)
			}
		}
	})
}

func TestSchema(t *testing.T) {
	_, cat := loadAll(t)
	schema := cat.Schema()

	if schema.Version != SchemaVersion {
		t.Errorf("expected version %s, got %s", SchemaVersion, schema.Version)
	}
	if len(schema.Categories) != 3 {
		t.Errorf("expected 3 categories, got %d", len(schema.Categories))
	}
	total := 0
	for name, sc := range schema.Categories {
		if sc.Description == "" {
			t.Errorf("category %s missing description", name)
		}
		total += len(sc.Features)
	}
	if total != len(cat.FeatureDefinitions()) {
		t.Errorf("expected every feature assigned to a category, got %d of %d",
			total, len(cat.FeatureDefinitions()))
	}
}
