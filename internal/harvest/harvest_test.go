// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sustain-research/internal/download"
	"github.com/pdiddy/sustain-research/internal/llm"
	"github.com/pdiddy/sustain-research/internal/search"
	"github.com/pdiddy/sustain-research/internal/summarize"
	"github.com/pdiddy/sustain-research/pkg/types"
)

type stubSource struct {
	name      string
	records   []types.PaperRecord
	err       error
	lastQuery string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(_ context.Context, q string, _ int) ([]types.PaperRecord, error) {
	s.lastQuery = q
	return s.records, s.err
}

type echoModel struct{ prompts []string }

func (m *echoModel) Complete(_ context.Context, prompt string, _ llm.Options) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return "summary of " + strings.TrimPrefix(prompt, "Summarize the following text:\n"), nil
}

func TestRunEndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF"))
	}))
	defer ts.Close()

	arxiv := &stubSource{name: "Arxiv", records: []types.PaperRecord{
		{Title: "ESRS Climate", Summary: "Climate abstract.", PDFURL: ts.URL + "/a.pdf"},
	}}
	pubmed := &stubSource{name: "PubMed", err: errors.New("timeout")}
	scholar := &stubSource{name: "Semantic Scholar", records: []types.PaperRecord{
		{Title: "No Abstract Paper", Summary: types.NoAbstractAvailable, PDFURL: ts.URL + "/missing.pdf"},
		{Title: "Linkless", Summary: "Has text."},
	}}

	dir := t.TempDir()
	model := &echoModel{}
	h := &Harvester{
		Sources:    []search.Searchable{arxiv, pubmed, scholar},
		Summarizer: &summarize.Summarizer{Model: model},
		Downloader: &download.Downloader{Client: ts.Client(), OutputDir: dir},
	}

	var out bytes.Buffer
	report := h.Run(context.Background(), "", 5, &out)

	assert.Equal(t, DefaultQuery, arxiv.lastQuery)
	require.Len(t, report.Papers, 3)
	require.Len(t, report.Search.Errors, 1)
	assert.Equal(t, "PubMed", report.Search.Errors[0].Source)

	assert.Equal(t, "summary of Climate abstract.", report.Papers[0].GeneratedSummary)
	assert.Empty(t, report.Papers[1].GeneratedSummary, "no-abstract records are not summarized")
	assert.Len(t, model.prompts, 2)

	assert.Equal(t, filepath.Join(dir, "ESRS_Climate.pdf"), report.Papers[0].LocalPath)
	assert.Empty(t, report.Papers[1].LocalPath)
	assert.Empty(t, report.Papers[2].LocalPath)
	assert.Equal(t, 1, report.Downloaded())
	_, err := os.Stat(filepath.Join(dir, "No_Abstract_Paper.pdf"))
	assert.True(t, os.IsNotExist(err))

	text := out.String()
	for _, want := range []string{
		"Searching in Arxiv...",
		"Error searching PubMed: timeout",
		"Title: ESRS Climate",
		"Summary: Climate abstract.",
		"Generated Summary: summary of Climate abstract.",
		"Failed to download: " + ts.URL + "/missing.pdf",
		"No PDF URL for: Linkless",
	} {
		assert.Contains(t, text, want)
	}
}

func TestProcessWithStagesDisabled(t *testing.T) {
	h := &Harvester{}
	var out bytes.Buffer
	papers := h.Process(context.Background(), []types.PaperRecord{{Title: "T", Summary: "S", PDFURL: "http://x"}}, &out)

	require.Len(t, papers, 1)
	assert.Empty(t, papers[0].GeneratedSummary)
	assert.Empty(t, papers[0].LocalPath)
	assert.Equal(t, "\nTitle: T\nSummary: S\n", out.String())
}

func TestProcessStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	papers := (&Harvester{}).Process(ctx, []types.PaperRecord{{Title: "a"}, {Title: "b"}}, &bytes.Buffer{})
	assert.Empty(t, papers)
}
