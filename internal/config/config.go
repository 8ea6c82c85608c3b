// Package config provides configuration loading and structs for the juris server and CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides llm.api_key when set.
const EnvAPIKey = "JURIS_GEMINI_API_KEY"

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Upload UploadConfig `yaml:"upload"`
	PDF    PDFConfig    `yaml:"pdf"`
	LLM    LLMConfig    `yaml:"llm"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RequestTimeoutSeconds bounds each request, including the model call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// UploadConfig holds upload validation settings.
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// PDFConfig selects the PDF text engine ("ledongthuc" or "pdfcpu").
type PDFConfig struct {
	Engine string `yaml:"engine"`
}

// LLMConfig holds Gemini generation settings.
type LLMConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url,omitempty"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	TopK            float32 `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// Load reads and parses the config file at path, applies the environment
// override and then defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every default applied and the environment override honoured.
func Default() *Config {
	cfg := &Config{}
	ApplyEnv(cfg)
	ApplyDefaults(cfg)
	return cfg
}

// ApplyEnv copies environment overrides into cfg.
func ApplyEnv(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		cfg.LLM.APIKey = key
	}
}

// Save writes the config to path with owner-only permissions, since it may hold the API key.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
