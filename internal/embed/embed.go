// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns document and query text into fixed-length vectors.
// The same Embedder must be used for indexing and querying so that
// distances between vectors are meaningful.
package embed

import (
	"context"
	"fmt"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// Embedder maps one text to one vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New returns the Embedder selected by cfg.Kind. An empty kind selects Gemini.
func New(ctx context.Context, cfg types.EmbeddingConfig) (Embedder, error) {
	switch cfg.Kind {
	case "", types.EmbedderGemini:
		return NewGemini(ctx, cfg)
	case types.EmbedderOpenAI:
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown embedder kind %q", cfg.Kind)
	}
}
