package config

import "fmt"

// Config holds dissect configuration.
// Stored at: {home}/config.yaml
type Config struct {
	PDFPath     string        `mapstructure:"pdf_path" yaml:"pdf_path"`
	OutputDir   string        `mapstructure:"output_dir" yaml:"output_dir"`
	TopFeatures int           `mapstructure:"top_features" yaml:"top_features"`
	Server      ServerCfg     `mapstructure:"server" yaml:"server"`
	Enrichment  EnrichmentCfg `mapstructure:"enrichment" yaml:"enrichment"`
}

// ServerCfg configures the dashboard HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// EnrichmentCfg configures the optional LLM feature enrichment.
type EnrichmentCfg struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PDFPath:     "dissertation.pdf",
		OutputDir:   "output",
		TopFeatures: 10,
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: 8575,
		},
		Enrichment: EnrichmentCfg{
			Enabled: false,
			Model:   "gpt-4o-mini",
			APIKey:  "${OPENAI_API_KEY}",
		},
	}
}

// ResolveAPIKey returns the enrichment API key with any ${ENV_VAR}
// reference expanded.
func (c *Config) ResolveAPIKey() string {
	return ResolveEnvVars(c.Enrichment.APIKey)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
