// Package enrich generates prose analyses for catalog features through
// an LLM provider. Enrichment is strictly additive: its output lands in
// a separate file and never feeds back into the deterministic dataset
// tables.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/musiclab/dissect/internal/catalog"
)

// ErrDisabled is returned by the no-op enricher.
var ErrDisabled = errors.New("enrichment disabled")

const (
	defaultModel    = "gpt-4o-mini"
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
)

// Analysis is one feature's generated commentary.
type Analysis struct {
	RequestID   string `json:"request_id"`
	FeatureName string `json:"feature_name"`
	Model       string `json:"model"`
	Text        string `json:"text"`
}

// Enricher produces an analysis for a single feature definition.
type Enricher interface {
	EnrichFeature(ctx context.Context, def catalog.FeatureDefinition) (*Analysis, error)
}

// Noop is the enricher used when enrichment is switched off.
type Noop struct{}

func (Noop) EnrichFeature(context.Context, catalog.FeatureDefinition) (*Analysis, error) {
	return nil, ErrDisabled
}

// Config holds OpenAI enricher settings.
type Config struct {
	APIKey   string
	Model    string
	Attempts uint
	Delay    time.Duration
	BaseURL  string // Optional (tests)
}

// OpenAIEnricher calls the OpenAI chat API.
type OpenAIEnricher struct {
	client   openai.Client
	model    string
	attempts uint
	delay    time.Duration
}

// NewOpenAIEnricher builds an enricher from config, applying defaults
// for anything unset.
func NewOpenAIEnricher(cfg Config) (*OpenAIEnricher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("enrichment requires an API key")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.Delay == 0 {
		cfg.Delay = defaultDelay
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEnricher{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		attempts: cfg.Attempts,
		delay:    cfg.Delay,
	}, nil
}

// EnrichFeature requests a short musicological analysis of one feature.
// Transient API failures are retried with a fixed delay.
func (e *OpenAIEnricher) EnrichFeature(ctx context.Context, def catalog.FeatureDefinition) (*Analysis, error) {
	prompt := buildPrompt(def)

	var text string
	err := retry.Do(
		func() error {
			resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(e.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(systemPrompt),
					openai.UserMessage(prompt),
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("empty completion for feature %s", def.Name)
			}
			text = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(e.attempts),
		retry.Delay(e.delay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich feature %s: %w", def.Name, err)
	}

	return &Analysis{
		RequestID:   uuid.NewString(),
		FeatureName: def.Name,
		Model:       e.model,
		Text:        text,
	}, nil
}

const systemPrompt = "You are a musicologist specializing in Thai traditional music " +
	"and jazz. Answer in two or three concise paragraphs."

// buildPrompt renders the user prompt for a feature definition.
func buildPrompt(def catalog.FeatureDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Describe the musical feature %q (%s category) in the context of "+
		"Thai-jazz cross-cultural fusion.\n", def.Name, def.Category)
	fmt.Fprintf(&b, "Definition: %s\n", def.Description)
	if len(def.SubTypes) > 0 {
		fmt.Fprintf(&b, "Known sub-types: %s\n", strings.Join(def.SubTypes, ", "))
	}
	b.WriteString("Explain how this feature could be annotated in a machine learning dataset.")
	return b.String()
}
