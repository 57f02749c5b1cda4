// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// DefaultGeminiModel is the embedding model used when none is configured.
const DefaultGeminiModel = "text-embedding-004"

// Gemini embeds text through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini embedder. cfg.BaseURL overrides the API
// endpoint and cfg.Timeout bounds each call.
func NewGemini(ctx context.Context, cfg types.EmbeddingConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no API key for the Gemini embedder")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Embed returns the embedding of text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embedding with %s: %w", g.model, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("Gemini returned no embedding")
	}
	return resp.Embeddings[0].Values, nil
}
