// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rag answers questions from the indexed documents: it retrieves
// the nearest documents, fits them into a bounded context, renders the
// answer prompt, refuses prompts over the token ceiling and asks the chat
// model. Every question is handled independently.
package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/sustain-research/internal/embed"
	"github.com/pdiddy/sustain-research/internal/llm"
	"github.com/pdiddy/sustain-research/internal/vectorindex"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// Chat settings for answers.
const (
	AnswerTemperature = 0.4
	AnswerMaxTokens   = 500
)

// ErrEmptyQuery is returned for a blank question.
var ErrEmptyQuery = errors.New("empty query")

// TokenCounter estimates the token length of a prompt.
type TokenCounter interface {
	CountTokens(text string) int
}

// PromptTooLongError reports a rendered prompt over the token ceiling.
type PromptTooLongError struct {
	Tokens int
	Limit  int
}

func (e *PromptTooLongError) Error() string {
	return fmt.Sprintf("The prompt is too long (%d tokens). Please reduce the input size.", e.Tokens)
}

// Answer is the outcome of one question.
type Answer struct {
	Text string

	// Query holds the context and prompt that produced Text.
	Query types.QueryContext

	// Sources are the retrieved documents included in the context.
	Sources []types.Hit
}

// Assistant wires retrieval to the chat model. Zero limits take the package
// defaults from types.
type Assistant struct {
	Embedder embed.Embedder
	Index    vectorindex.VectorIndex
	Model    llm.ChatCompleter
	Tokens   TokenCounter

	TopK            int
	MaxContextChars int
	MaxPromptTokens int
}

// Prepare retrieves context for query and renders the prompt, without
// calling the chat model. It returns a *PromptTooLongError along with the
// prepared state when the prompt exceeds the token ceiling.
func (a *Assistant) Prepare(ctx context.Context, query string) (types.QueryContext, []types.Hit, error) {
	qc := types.QueryContext{Query: query}
	if query == "" {
		return qc, nil, ErrEmptyQuery
	}

	vec, err := a.Embedder.Embed(ctx, query)
	if err != nil {
		return qc, nil, fmt.Errorf("embedding query: %w", err)
	}
	hits, err := a.Index.Query(ctx, vec, orDefault(a.TopK, types.DefaultTopK))
	if err != nil {
		return qc, nil, fmt.Errorf("querying index: %w", err)
	}

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Document
	}
	qc.Context, qc.Included = BuildContext(texts, orDefault(a.MaxContextChars, types.DefaultMaxContextChars))

	if qc.Prompt, err = RenderPrompt(query, qc.Context); err != nil {
		return qc, nil, fmt.Errorf("rendering prompt: %w", err)
	}
	qc.Tokens = a.Tokens.CountTokens(qc.Prompt)

	sources := hits[:qc.Included]
	if limit := orDefault(a.MaxPromptTokens, types.DefaultMaxPromptTokens); qc.Tokens > limit {
		return qc, sources, &PromptTooLongError{Tokens: qc.Tokens, Limit: limit}
	}
	return qc, sources, nil
}

// Answer runs one full question pass. The chat model is not called when
// preparation fails.
func (a *Assistant) Answer(ctx context.Context, query string) (Answer, error) {
	qc, sources, err := a.Prepare(ctx, query)
	ans := Answer{Query: qc, Sources: sources}
	if err != nil {
		return ans, err
	}

	text, err := a.Model.Complete(ctx, qc.Prompt, llm.Options{
		Temperature: AnswerTemperature,
		MaxTokens:   AnswerMaxTokens,
	})
	if err != nil {
		return ans, fmt.Errorf("generating answer: %w", err)
	}
	ans.Text = text
	return ans, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
