package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/musiclab/dissect/internal/catalog"
)

func TestNoop(t *testing.T) {
	_, err := Noop{}.EnrichFeature(context.Background(), catalog.FeatureDefinition{Name: "thang"})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestNewOpenAIEnricher(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		if _, err := NewOpenAIEnricher(Config{}); err == nil {
			t.Error("expected error without API key")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		e, err := NewOpenAIEnricher(Config{APIKey: "sk-test"})
		if err != nil {
			t.Fatal(err)
		}
		if e.model != defaultModel {
			t.Errorf("expected default model %s, got %s", defaultModel, e.model)
		}
		if e.attempts != defaultAttempts || e.delay != defaultDelay {
			t.Errorf("defaults not applied: attempts=%d delay=%s", e.attempts, e.delay)
		}
	})
}

func TestBuildPrompt(t *testing.T) {
	def := catalog.FeatureDefinition{
		Name:        "thang",
		Category:    catalog.FeatureThaiTraditional,
		Description: "Thai melodic mode system",
		SubTypes:    []string{"nai", "klang"},
	}
	prompt := buildPrompt(def)

	for _, want := range []string{`"thang"`, "thai_traditional", "Thai melodic mode system", "nai, klang"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	t.Run("sub-types line omitted when empty", func(t *testing.T) {
		def.SubTypes = nil
		if strings.Contains(buildPrompt(def), "sub-types") {
			t.Error("expected no sub-types line")
		}
	})
}
