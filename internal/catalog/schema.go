package catalog

// SchemaVersion identifies the exported dataset schema revision.
// Downstream ML tooling keys on this; bump it on any shape change.
const SchemaVersion = "1.0"

// DatasetSchema is the static description of the exported ML dataset.
// The audio feature names are output labels for downstream annotation
// tooling; nothing here is computed from audio.
type DatasetSchema struct {
	Version         string                    `json:"version"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description"`
	Categories      map[string]SchemaCategory `json:"categories"`
	AudioFeatures   map[string][]string       `json:"audio_features"`
	AnnotationTypes map[string][]string       `json:"annotation_types"`
}

// SchemaCategory groups the features belonging to one catalog category.
type SchemaCategory struct {
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

var categoryDescriptions = map[FeatureCategory]string{
	FeatureThaiTraditional:     "Traditional Thai music elements",
	FeatureJazzModern:          "Modern jazz music elements",
	FeatureCrossCulturalFusion: "Cross-cultural fusion techniques",
}

// Schema builds the dataset schema document from the loaded catalog.
func (c *Catalog) Schema() DatasetSchema {
	categories := make(map[string]SchemaCategory, len(categoryDescriptions))
	for cat, desc := range categoryDescriptions {
		sc := SchemaCategory{Description: desc, Features: []string{}}
		for _, f := range c.features {
			if f.Category == cat {
				sc.Features = append(sc.Features, f.Name)
			}
		}
		categories[string(cat)] = sc
	}

	return DatasetSchema{
		Version:     SchemaVersion,
		Name:        "Thai-Jazz Cross-Cultural Music Dataset",
		Description: "Dataset for machine learning on Thai-jazz music fusion",
		Categories:  categories,
		AudioFeatures: map[string][]string{
			"spectral": {"mfcc", "spectral_centroid", "spectral_bandwidth", "spectral_rolloff", "chroma"},
			"temporal": {"tempo", "beat_frames", "onset_strength"},
			"harmonic": {"tonnetz", "harmonic_percussive_ratio"},
			"rhythm":   {"tempo", "beat_histogram", "rhythm_pattern"},
		},
		AnnotationTypes: map[string][]string{
			"melodic":    {"pitch_contour", "ornament_type", "phrase_boundary"},
			"harmonic":   {"chord_label", "key", "mode"},
			"rhythmic":   {"beat_position", "accent_pattern", "tempo_variation"},
			"structural": {"section_label", "form", "transition_type"},
		},
	}
}
