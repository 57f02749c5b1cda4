// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/sustain-research/internal/container"
)

// MarkitdownImage is the container image that converts documents to Markdown.
const MarkitdownImage = "markitdown:latest"

// Markitdown extracts PDF text by piping the file through the markitdown
// container image. Layout such as headings and tables survives as Markdown.
type Markitdown struct {
	runtime container.Runtime
}

// NewMarkitdown verifies the image exists in rt before returning.
func NewMarkitdown(ctx context.Context, rt container.Runtime) (*Markitdown, error) {
	if err := rt.ImageExists(ctx, MarkitdownImage); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &Markitdown{runtime: rt}, nil
}

// Extract converts the document at path. An empty conversion is returned as
// empty text, which callers treat as "nothing to index".
func (m *Markitdown) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, MarkitdownImage, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	return out.String(), nil
}
