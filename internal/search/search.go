// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries academic APIs (Arxiv, PubMed, Semantic Scholar,
// OpenAlex) and returns normalized paper records. Sources run one after
// another; a failing source contributes no records and never aborts the run.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// Searchable is a single academic source.
type Searchable interface {
	// Name is the human-readable source name used in progress and error lines.
	Name() string

	// Search returns at most maxResults records for query.
	Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error)
}

// SourceError records a source that failed during a run.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Output holds the concatenated records of a run and the sources that failed.
type Output struct {
	Records []types.PaperRecord
	Errors  []SourceError
}

// SearchSource runs one source and converts a failure into an empty result.
// The error is reported on w as "Error searching <name>: <err>".
func SearchSource(ctx context.Context, src Searchable, query string, maxResults int, w io.Writer) ([]types.PaperRecord, error) {
	records, err := src.Search(ctx, query, maxResults)
	if err != nil {
		fmt.Fprintf(w, "Error searching %s: %v\n", src.Name(), err)
		return []types.PaperRecord{}, err
	}
	if records == nil {
		records = []types.PaperRecord{}
	}
	return records, nil
}

// Run queries every source in order and concatenates the results in source
// order. Records are not deduplicated across sources: a paper indexed by two
// sources appears twice.
func Run(ctx context.Context, sources []Searchable, query string, maxResults int, w io.Writer) Output {
	var out Output
	for _, src := range sources {
		fmt.Fprintf(w, "Searching in %s...\n", src.Name())
		records, err := SearchSource(ctx, src, query, maxResults, w)
		if err != nil {
			out.Errors = append(out.Errors, SourceError{Source: src.Name(), Err: err})
			continue
		}
		out.Records = append(out.Records, records...)
	}
	return out
}

// FormatText writes each record as a Title/Summary block to w.
func FormatText(records []types.PaperRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	for _, r := range records {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Title:", r.Title)
		if authors := formatAuthors(r.Authors); authors != "" {
			fmt.Fprintln(w, "Authors:", authors)
		}
		if r.Published != nil {
			fmt.Fprintln(w, "Published:", r.Published.Format("2006-01-02"))
		}
		fmt.Fprintln(w, "Summary:", r.Summary)
	}
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.PaperRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1, 2, 3:
		return strings.Join(authors, ", ")
	default:
		return strings.Join(authors[:3], ", ") + " et al."
	}
}

// maxOrDefault returns n, or 5 when n is not positive.
func maxOrDefault(n int) int {
	if n <= 0 {
		return 5
	}
	return n
}
