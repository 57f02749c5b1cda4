// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest runs the paper harvester: search every source, then for
// each paper print it, optionally summarize its abstract and optionally
// download its PDF. Papers are processed one at a time in result order.
package harvest

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/sustain-research/internal/download"
	"github.com/pdiddy/sustain-research/internal/search"
	"github.com/pdiddy/sustain-research/internal/summarize"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// DefaultQuery is searched when no query is given.
const DefaultQuery = "Sustainability Reporting Europe ESRS CSRD"

// Paper is a harvested record with what processing produced for it.
type Paper struct {
	types.PaperRecord `yaml:",inline"`

	// GeneratedSummary is the model summary, empty when not requested or skipped.
	GeneratedSummary string `json:"generated_summary,omitempty" yaml:"generated_summary,omitempty"`

	// LocalPath is the downloaded PDF, empty when nothing was saved.
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`
}

// Report is the outcome of one harvest.
type Report struct {
	Search search.Output
	Papers []Paper
}

// Downloaded returns the number of PDFs saved.
func (r Report) Downloaded() int {
	n := 0
	for _, p := range r.Papers {
		if p.LocalPath != "" {
			n++
		}
	}
	return n
}

// Harvester holds the configured stages. A nil Summarizer or Downloader
// disables that stage.
type Harvester struct {
	Sources    []search.Searchable
	Summarizer *summarize.Summarizer
	Downloader *download.Downloader

	// SummaryMaxTokens caps each generated summary (default 150).
	SummaryMaxTokens int
}

// Run searches all sources for query and processes every result, writing
// progress and per-paper output to w.
func (h *Harvester) Run(ctx context.Context, query string, maxResults int, w io.Writer) Report {
	if query == "" {
		query = DefaultQuery
	}
	out := search.Run(ctx, h.Sources, query, maxResults, w)
	return Report{Search: out, Papers: h.Process(ctx, out.Records, w)}
}

// Process prints each record and applies the enabled stages to it.
func (h *Harvester) Process(ctx context.Context, records []types.PaperRecord, w io.Writer) []Paper {
	papers := make([]Paper, 0, len(records))
	for _, r := range records {
		if ctx.Err() != nil {
			break
		}
		p := Paper{PaperRecord: r}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Title:", r.Title)
		fmt.Fprintln(w, "Summary:", r.Summary)

		if h.Summarizer != nil && summarize.Summarizable(r) {
			p.GeneratedSummary = h.Summarizer.Summarize(ctx, r.Summary, h.SummaryMaxTokens)
			fmt.Fprintln(w, "Generated Summary:", p.GeneratedSummary)
		}

		if h.Downloader != nil {
			p.LocalPath = h.Downloader.Download(ctx, r.PDFURL, r.Title)
		}
		papers = append(papers, p)
	}
	return papers
}
