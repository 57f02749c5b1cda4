// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/sustain-research/pkg/types"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "text-embedding-3-small"
	defaultOpenAITimeout = 30 * time.Second
)

// OpenAI embeds text through an OpenAI-compatible /embeddings endpoint.
// Ollama's native {"embedding": [...]} reply shape is accepted too.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAI builds an OpenAI-compatible embedder. The API key may be empty
// for local servers.
func NewOpenAI(cfg types.EmbeddingConfig) (*OpenAI, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultOpenAIBaseURL
		if cfg.APIKey == "" {
			return nil, errors.New("no API key for the OpenAI embedder")
		}
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultOpenAITimeout
	}
	return &OpenAI{
		baseURL: base,
		apiKey:  cfg.APIKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// openAIRequest carries the text as both input and prompt: OpenAI reads
// input, Ollama's /api/embeddings reads prompt.
type openAIRequest struct {
	Input  string `json:"input"`
	Prompt string `json:"prompt,omitempty"`
	Model  string `json:"model"`
}

type openAIResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	// Ollama native shape.
	Embedding []float32 `json:"embedding"`
}

// Embed returns the embedding of text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(openAIRequest{Input: text, Prompt: text, Model: o.model})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embeddings API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embeddings API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embeddings response: %w", err)
	}
	switch {
	case len(out.Data) > 0 && len(out.Data[0].Embedding) > 0:
		return out.Data[0].Embedding, nil
	case len(out.Embedding) > 0:
		return out.Embedding, nil
	}
	return nil, errors.New("no embedding returned")
}
