// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls plain text out of the files in a documents folder.
// Each file extension maps to one Extractor; files with any other extension
// are not documents and are ignored by callers.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// ErrUnsupported is returned for files whose extension has no extractor.
var ErrUnsupported = errors.New("unsupported file type")

// Extractor returns the full text of the file at path.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Registry maps a file extension, including the dot, to its extractor.
// Matching is case-sensitive: "report.PDF" is not a PDF.
type Registry map[string]Extractor

// NewRegistry returns the standard registry: pdf for ".pdf" and JSON for
// ".json".
func NewRegistry(pdf Extractor) Registry {
	return Registry{
		".pdf":  pdf,
		".json": JSON{},
	}
}

// Supports reports whether name has a registered extension.
func (r Registry) Supports(name string) bool {
	_, ok := r[filepath.Ext(name)]
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r Registry) Extensions() []string {
	exts := make([]string, 0, len(r))
	for ext := range r {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract runs the extractor registered for path's extension.
func (r Registry) Extract(ctx context.Context, path string) (string, error) {
	ex, ok := r[filepath.Ext(path)]
	if !ok || ex == nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	return ex.Extract(ctx, path)
}
