// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// ExportEntry describes one stored document without its vector.
type ExportEntry struct {
	ID         string `json:"id" yaml:"id"`
	Filename   string `json:"filename" yaml:"filename"`
	Characters int    `json:"characters" yaml:"characters"`
	Dimensions int    `json:"dimensions" yaml:"dimensions"`
	Preview    string `json:"preview" yaml:"preview"`
}

const previewRunes = 120

// ExportYAML writes a listing of every entry in s to w.
func (s *SQLite) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	out := make([]ExportEntry, len(entries))
	for i, e := range entries {
		out[i] = ExportEntry{
			ID:         e.ID,
			Filename:   e.Metadata[types.MetadataFilename],
			Characters: utf8.RuneCountInString(e.Document),
			Dimensions: len(e.Embedding),
			Preview:    preview(e.Document),
		}
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes]) + "..."
}
