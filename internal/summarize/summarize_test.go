// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/sustain-research/internal/llm"
	"github.com/pdiddy/sustain-research/pkg/types"
)

type fakeModel struct {
	reply  string
	err    error
	prompt string
	opts   llm.Options
}

func (f *fakeModel) Complete(_ context.Context, prompt string, opts llm.Options) (string, error) {
	f.prompt = prompt
	f.opts = opts
	return f.reply, f.err
}

func TestSummarize(t *testing.T) {
	m := &fakeModel{reply: "  Short summary.\n"}
	s := &Summarizer{Model: m}

	got := s.Summarize(context.Background(), "Long abstract.", 0)
	assert.Equal(t, "Short summary.", got)
	assert.Equal(t, "Summarize the following text:\nLong abstract.", m.prompt)
	assert.Equal(t, llm.Options{Temperature: 0.5, MaxTokens: 150}, m.opts)
}

func TestSummarizeCustomMaxTokens(t *testing.T) {
	m := &fakeModel{reply: "ok"}
	(&Summarizer{Model: m}).Summarize(context.Background(), "x", 60)
	assert.Equal(t, 60, m.opts.MaxTokens)
}

func TestSummarizeFallback(t *testing.T) {
	var out bytes.Buffer
	s := &Summarizer{Model: &fakeModel{err: errors.New("rate limited")}, Out: &out}

	assert.Equal(t, Fallback, s.Summarize(context.Background(), "x", 0))
	assert.Contains(t, out.String(), "rate limited")
}

func TestSummarizable(t *testing.T) {
	assert.True(t, Summarizable(types.PaperRecord{Summary: "Real abstract"}))
	assert.True(t, Summarizable(types.PaperRecord{Summary: types.NoAbstract}))
	assert.False(t, Summarizable(types.PaperRecord{Summary: types.NoAbstractAvailable}))
}
