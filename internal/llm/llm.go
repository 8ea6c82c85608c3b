// Package llm sends composed prompts to a generative language model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/juris/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse is returned when the model produced no candidate text.
	ErrEmptyResponse = errors.New("model returned no content")
	// ErrNoAPIKey is returned by NewGemini when no API key is configured.
	ErrNoAPIKey = errors.New("gemini api key not configured (set llm.api_key or " + config.EnvAPIKey + ")")
)

// Generator produces a reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	gen    *genai.GenerateContentConfig
	logger *zap.Logger
}

// Option configures a Gemini generator.
type Option func(*Gemini)

// WithLogger sets a logger for request debug output.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gemini) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGemini creates a client for cfg. The API key is read once here and never changed.
func NewGemini(ctx context.Context, cfg *config.LLMConfig, opts ...Option) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g := &Gemini{
		client: client,
		model:  cfg.Model,
		gen: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			TopK:            genai.Ptr(cfg.TopK),
			TopP:            genai.Ptr(cfg.TopP),
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn and returns the reply text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("gemini request", zap.String("model", g.model), zap.Int("prompt_bytes", len(prompt)))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.gen)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Unavailable is a Generator that always fails with Err. The server uses it
// when no API key is configured so uploads keep working.
type Unavailable struct {
	Err error
}

// Generate returns u.Err.
func (u Unavailable) Generate(context.Context, string) (string, error) {
	if u.Err == nil {
		return "", ErrNoAPIKey
	}
	return "", u.Err
}
