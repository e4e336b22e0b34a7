// Package catalog holds the static taxonomy of domain features and
// merges keyword match counts into ranked feature statistics.
//
// The catalog is independent of any particular document: feature
// definitions and the keyword-to-feature mapping are embedded
// configuration, loaded once and validated for totality before any
// pipeline run.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/musiclab/dissect/internal/keywords"
)

// ErrUnmappedKeyword indicates a taxonomy keyword with no feature
// mapping. This is a configuration-integrity failure: it is fatal at
// load time and prevents any catalog from being built.
var ErrUnmappedKeyword = errors.New("unmapped keyword")

// FeatureCategory classifies features in the static catalog.
type FeatureCategory string

const (
	FeatureThaiTraditional     FeatureCategory = "thai_traditional"
	FeatureJazzModern          FeatureCategory = "jazz_modern"
	FeatureCrossCulturalFusion FeatureCategory = "cross_cultural_fusion"
)

// FeatureDefinition describes one named musical concept. Several literal
// keywords may map to one feature (e.g. improvise, improvisation, improv).
type FeatureDefinition struct {
	Name        string          `yaml:"name" json:"feature_name"`
	Category    FeatureCategory `yaml:"category" json:"category"`
	Description string          `yaml:"description" json:"description"`
	SubTypes    []string        `yaml:"sub_types" json:"sub_types"`
	Keywords    []string        `yaml:"keywords" json:"-"`
}

// CatalogRow is one row of the exported feature catalog table.
// SubTypes is JSON-encoded so the row flattens cleanly into CSV.
type CatalogRow struct {
	FeatureName string          `json:"feature_name"`
	Category    FeatureCategory `json:"category"`
	Description string          `json:"description"`
	SubTypes    string          `json:"sub_types"`
}

// FeatureStatistic is the per-feature aggregation of keyword matches.
type FeatureStatistic struct {
	FeatureName   string          `json:"feature_name"`
	Category      FeatureCategory `json:"category"`
	InstanceCount int             `json:"instance_count"`
	UniquePages   int             `json:"unique_pages"`
}

//go:embed features.yaml
var featuresYAML []byte

const featuresSchema = `{
	"type": "object",
	"required": ["features"],
	"properties": {
		"features": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name", "category", "description", "sub_types", "keywords"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"category": {
						"type": "string",
						"enum": ["thai_traditional", "jazz_modern", "cross_cultural_fusion"]
					},
					"description": {"type": "string", "minLength": 1},
					"sub_types": {"type": "array", "items": {"type": "string"}},
					"keywords": {"type": "array", "items": {"type": "string", "minLength": 1}}
				}
			}
		}
	}
}`

// Catalog is the loaded, validated feature table.
type Catalog struct {
	features       []FeatureDefinition
	byName         map[string]int
	keywordFeature map[string]string
}

type featuresFile struct {
	Features []FeatureDefinition `yaml:"features"`
}

// Load parses the embedded feature definitions and validates them
// against the given taxonomy: every taxonomy keyword must map to exactly
// one feature. Any violation fails the load.
func Load(tax *keywords.Taxonomy) (*Catalog, error) {
	if err := validateFeatures(featuresYAML); err != nil {
		return nil, fmt.Errorf("feature config invalid: %w", err)
	}

	var file featuresFile
	if err := yaml.Unmarshal(featuresYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse feature config: %w", err)
	}

	c := &Catalog{
		features:       file.Features,
		byName:         make(map[string]int, len(file.Features)),
		keywordFeature: make(map[string]string),
	}
	for i, f := range file.Features {
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("feature config invalid: duplicate feature %q", f.Name)
		}
		c.byName[f.Name] = i
		for _, kw := range f.Keywords {
			kw = strings.ToLower(kw)
			if prev, dup := c.keywordFeature[kw]; dup {
				return nil, fmt.Errorf("feature config invalid: keyword %q mapped to both %q and %q",
					kw, prev, f.Name)
			}
			c.keywordFeature[kw] = f.Name
		}
	}

	if err := c.checkTotality(tax); err != nil {
		return nil, err
	}
	return c, nil
}

// checkTotality verifies that the keyword-to-feature mapping covers
// every term in the taxonomy.
func (c *Catalog) checkTotality(tax *keywords.Taxonomy) error {
	for _, cat := range tax.Categories() {
		for _, term := range tax.Terms(cat) {
			if _, ok := c.keywordFeature[term]; !ok {
				return fmt.Errorf("keyword %q in category %s: %w", term, cat, ErrUnmappedKeyword)
			}
		}
	}
	return nil
}

// FeatureDefinitions returns all features in catalog order. Never empty
// for a successfully loaded catalog.
func (c *Catalog) FeatureDefinitions() []FeatureDefinition {
	out := make([]FeatureDefinition, len(c.features))
	copy(out, c.features)
	return out
}

// FeatureFor returns the feature name a keyword maps to.
func (c *Catalog) FeatureFor(keyword string) (string, bool) {
	name, ok := c.keywordFeature[strings.ToLower(keyword)]
	return name, ok
}

// GenerateFeatureCatalog returns the exportable feature catalog table,
// keyed by feature name.
func (c *Catalog) GenerateFeatureCatalog() []CatalogRow {
	rows := make([]CatalogRow, 0, len(c.features))
	for _, f := range c.features {
		subTypes, _ := json.Marshal(f.SubTypes)
		rows = append(rows, CatalogRow{
			FeatureName: f.Name,
			Category:    f.Category,
			Description: f.Description,
			SubTypes:    string(subTypes),
		})
	}
	return rows
}

// Statistics aggregates keyword matches into per-feature counts, ranked
// by instance count descending with ties broken by feature name
// ascending. Every catalog feature appears, zero-count features
// included.
//
// Overlapping spans of keyword variants mapping to the same feature on
// the same page count once (e.g. "chord" inside "chord progression"),
// so instance counts never double-count a single text span.
func (c *Catalog) Statistics(matches map[keywords.Category][]keywords.Match) []FeatureStatistic {
	perFeature := make(map[string][]keywords.Match)
	for _, cat := range keywords.Categories {
		for _, m := range matches[cat] {
			name, ok := c.FeatureFor(m.Keyword)
			if !ok {
				continue // load-time totality check makes this unreachable
			}
			perFeature[name] = append(perFeature[name], m)
		}
	}

	stats := make([]FeatureStatistic, 0, len(c.features))
	for _, f := range c.features {
		count, pages := countDistinctSpans(perFeature[f.Name])
		stats = append(stats, FeatureStatistic{
			FeatureName:   f.Name,
			Category:      f.Category,
			InstanceCount: count,
			UniquePages:   pages,
		})
	}

	sort.SliceStable(stats, func(a, b int) bool {
		if stats[a].InstanceCount != stats[b].InstanceCount {
			return stats[a].InstanceCount > stats[b].InstanceCount
		}
		return stats[a].FeatureName < stats[b].FeatureName
	})
	return stats
}

// countDistinctSpans counts matches whose spans do not overlap a
// previously counted span on the same page. Matches are ordered by
// (page, offset asc, end desc) so the longest variant at an offset wins.
func countDistinctSpans(ms []keywords.Match) (count, uniquePages int) {
	if len(ms) == 0 {
		return 0, 0
	}
	sorted := make([]keywords.Match, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Page != sorted[b].Page {
			return sorted[a].Page < sorted[b].Page
		}
		if sorted[a].Offset != sorted[b].Offset {
			return sorted[a].Offset < sorted[b].Offset
		}
		return sorted[a].End > sorted[b].End
	})

	pages := make(map[int]struct{})
	lastPage, lastEnd := 0, 0
	for _, m := range sorted {
		if m.Page == lastPage && m.Offset < lastEnd {
			continue
		}
		count++
		pages[m.Page] = struct{}{}
		lastPage, lastEnd = m.Page, m.End
	}
	return count, len(pages)
}

func validateFeatures(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	var jsonDoc any
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&jsonDoc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("features.json", strings.NewReader(featuresSchema)); err != nil {
		return fmt.Errorf("failed to load feature schema: %w", err)
	}
	schema, err := compiler.Compile("features.json")
	if err != nil {
		return fmt.Errorf("failed to compile feature schema: %w", err)
	}
	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("features do not match schema: %w", err)
	}
	return nil
}
