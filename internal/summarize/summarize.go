// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces short model-written summaries of paper
// abstracts.
package summarize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/sustain-research/internal/llm"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// Fallback is returned in place of a summary whenever the model call fails.
const Fallback = "Summary not available."

const (
	// DefaultMaxTokens caps the summary length.
	DefaultMaxTokens = 150

	temperature = 0.5
	promptHead  = "Summarize the following text:\n"
)

// Summarizer asks a chat model for one summary per text.
type Summarizer struct {
	Model llm.ChatCompleter

	// Out receives failure diagnostics. Nil discards them.
	Out io.Writer
}

// Summarize returns the model's trimmed summary of text, or Fallback when
// the call fails. A maxTokens of zero uses DefaultMaxTokens.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	out, err := s.Model.Complete(ctx, promptHead+text, llm.Options{
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		if s.Out != nil {
			fmt.Fprintf(s.Out, "Error in summarization: %v\n", err)
		}
		return Fallback
	}
	return strings.TrimSpace(out)
}

// Summarizable reports whether a record's summary is worth sending to the
// model. Records whose source had no abstract are skipped.
func Summarizable(r types.PaperRecord) bool {
	return r.Summary != types.NoAbstractAvailable
}
