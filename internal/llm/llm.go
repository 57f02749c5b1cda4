// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the hosted chat model used for abstract summaries and
// for answering questions over retrieved documents.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "claude-3-5-haiku-latest"

// ErrNoAPIKey is returned by New when no API key is configured.
var ErrNoAPIKey = errors.New("no API key for the chat model")

// Options tune one completion request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// ChatCompleter sends a single user prompt to a chat model and returns the
// text of the reply. Implementations hold no conversation state.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Claude is a ChatCompleter backed by the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	model  string
}

// New builds a Claude completer from cfg. The HTTP client may be nil.
// Retries are disabled: a failed call surfaces immediately.
func New(cfg types.AIConfig, httpClient *http.Client) (*Claude, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Claude{client: anthropic.NewClient(opts...), model: model}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Claude) Model() string { return c.model }

// Complete sends prompt as a single user message and concatenates the text
// blocks of the reply.
func (c *Claude) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling chat model: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("chat model returned no text content")
	}
	return sb.String(), nil
}
