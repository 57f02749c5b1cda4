// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest loads the documents folder into a vector index. Each file
// becomes one document embedded as a whole and stored under its filename.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sustain-research/internal/embed"
	"github.com/pdiddy/sustain-research/internal/extract"
	"github.com/pdiddy/sustain-research/internal/vectorindex"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// Summary holds counts from an ingestion run.
type Summary struct {
	Loaded  int
	Indexed int
	Failed  int
}

// HasFailures reports whether any document could not be indexed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// LoadDocuments extracts the text of every supported file directly inside
// dir, in name order. Unsupported files and subdirectories are ignored.
// Files that fail to extract are reported on w and skipped, as are files
// whose text is empty.
func LoadDocuments(ctx context.Context, dir string, reg extract.Registry, w io.Writer) ([]types.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents directory %s: %w", dir, err)
	}

	var docs []types.Document
	for _, entry := range entries {
		if entry.IsDir() || !reg.Supports(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		text, err := reg.Extract(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", entry.Name(), err)
			continue
		}
		if text == "" {
			continue
		}
		docs = append(docs, types.Document{Content: text, Filename: entry.Name()})
	}
	return docs, nil
}

// Index embeds each document and upserts it keyed by filename. A document
// that fails to embed or store is reported on w and counted; the rest are
// still indexed. Entries for files no longer in the folder are left alone.
func Index(ctx context.Context, docs []types.Document, e embed.Embedder, idx vectorindex.VectorIndex, w io.Writer) (Summary, error) {
	summary := Summary{Loaded: len(docs)}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		vec, err := e.Embed(ctx, doc.Content)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc.Filename, err)
			summary.Failed++
			continue
		}
		if err := idx.Upsert(ctx, []types.IndexEntry{types.EntryFromDocument(doc, vec)}); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc.Filename, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "indexed %s\n", doc.Filename)
		summary.Indexed++
	}
	return summary, nil
}

// Run loads dir and indexes its documents, then prints a one-line summary.
func Run(ctx context.Context, dir string, reg extract.Registry, e embed.Embedder, idx vectorindex.VectorIndex, w io.Writer) (Summary, error) {
	docs, err := LoadDocuments(ctx, dir, reg, w)
	if err != nil {
		return Summary{}, err
	}
	if len(docs) == 0 {
		fmt.Fprintf(w, "warning: no %s documents found in %s\n", strings.Join(reg.Extensions(), " or "), dir)
	}

	summary, err := Index(ctx, docs, e, idx, w)
	if err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "\nloaded: %d, indexed: %d, failed: %d\n", summary.Loaded, summary.Indexed, summary.Failed)
	return summary, nil
}
