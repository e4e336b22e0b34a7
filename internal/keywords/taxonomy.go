// Package keywords scans extracted pages against a fixed
// category-to-term taxonomy and emits page-attributed matches with
// surrounding context.
package keywords

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Category is one of the five top-level content classes used for
// keyword grouping.
type Category string

const (
	CategoryThaiMusic     Category = "thai_music"
	CategoryJazz          Category = "jazz"
	CategoryCrossCultural Category = "cross_cultural"
	CategoryMLDataset     Category = "ml_dataset"
	CategoryMusicTheory   Category = "music_theory"
)

// Categories lists all categories in their canonical scan order.
var Categories = []Category{
	CategoryThaiMusic,
	CategoryJazz,
	CategoryCrossCultural,
	CategoryMLDataset,
	CategoryMusicTheory,
}

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// taxonomySchema validates the embedded taxonomy shape before use.
const taxonomySchema = `{
	"type": "object",
	"required": ["categories"],
	"properties": {
		"categories": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name", "terms"],
				"properties": {
					"name": {
						"type": "string",
						"enum": ["thai_music", "jazz", "cross_cultural", "ml_dataset", "music_theory"]
					},
					"terms": {
						"type": "array",
						"minItems": 1,
						"items": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}
}`

// Taxonomy is the immutable category-to-terms table loaded at startup.
type Taxonomy struct {
	categories []Category
	terms      map[Category][]string
}

type taxonomyFile struct {
	Categories []struct {
		Name  string   `yaml:"name"`
		Terms []string `yaml:"terms"`
	} `yaml:"categories"`
}

// LoadTaxonomy parses and validates the embedded taxonomy.
// Validation failures are configuration-integrity errors: the pipeline
// must not run with a malformed taxonomy.
func LoadTaxonomy() (*Taxonomy, error) {
	if err := validateTaxonomy(taxonomyYAML); err != nil {
		return nil, fmt.Errorf("taxonomy config invalid: %w", err)
	}

	var file taxonomyFile
	if err := yaml.Unmarshal(taxonomyYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	t := &Taxonomy{terms: make(map[Category][]string, len(file.Categories))}
	for _, c := range file.Categories {
		cat := Category(c.Name)
		if _, dup := t.terms[cat]; dup {
			return nil, fmt.Errorf("taxonomy config invalid: duplicate category %q", c.Name)
		}
		terms := make([]string, len(c.Terms))
		for i, term := range c.Terms {
			terms[i] = strings.ToLower(term)
		}
		t.categories = append(t.categories, cat)
		t.terms[cat] = terms
	}
	return t, nil
}

// Categories returns the taxonomy's categories in declaration order.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}

// Terms returns the keyword terms for a category, in declaration order.
func (t *Taxonomy) Terms(cat Category) []string {
	return t.terms[cat]
}

// AllTerms returns every (category, term) pair in declaration order.
func (t *Taxonomy) AllTerms() map[Category][]string {
	return t.terms
}

// validateTaxonomy checks the raw YAML against the taxonomy schema.
// The document is round-tripped through JSON so the validator sees the
// value types it expects.
func validateTaxonomy(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	jsonDoc, err := jsonRoundTrip(doc)
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("taxonomy.json", strings.NewReader(taxonomySchema)); err != nil {
		return fmt.Errorf("failed to load taxonomy schema: %w", err)
	}
	schema, err := compiler.Compile("taxonomy.json")
	if err != nil {
		return fmt.Errorf("failed to compile taxonomy schema: %w", err)
	}
	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("taxonomy does not match schema: %w", err)
	}
	return nil
}

// jsonRoundTrip converts a YAML-decoded value into JSON-decoded types.
func jsonRoundTrip(doc any) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	var out any
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return out, nil
}
