// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download saves paper PDFs to a local folder. Download failures
// are reported on the status writer and never returned to the caller, so a
// bad link never interrupts a harvest.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Downloader fetches PDFs into OutputDir.
type Downloader struct {
	Client    *http.Client
	UserAgent string

	// OutputDir is the destination folder. Empty means the working directory.
	OutputDir string

	// Out receives status lines. Nil discards them.
	Out io.Writer
}

// FileName derives the local file name for a paper title by replacing
// spaces with underscores. No other characters are changed and two papers
// with the same title map to the same file.
func FileName(title string) string {
	return strings.ReplaceAll(title, " ", "_") + ".pdf"
}

// Download fetches url and writes it to FileName(title). It returns the
// written path, or "" when nothing was saved.
func (d *Downloader) Download(ctx context.Context, url, title string) string {
	w := d.Out
	if w == nil {
		w = io.Discard
	}
	if url == "" {
		fmt.Fprintf(w, "No PDF URL for: %s\n", title)
		return ""
	}

	dest := filepath.Join(d.OutputDir, FileName(title))
	ok, err := d.fetch(ctx, url, dest)
	switch {
	case err != nil:
		fmt.Fprintf(w, "Error downloading PDF for %s: %v\n", title, err)
		return ""
	case !ok:
		fmt.Fprintf(w, "Failed to download: %s\n", url)
		return ""
	}
	fmt.Fprintf(w, "Downloaded: %s\n", dest)
	return dest
}

// fetch writes the response body to dest. It reports false with a nil
// error when the server answered with a non-200 status.
func (d *Downloader) fetch(ctx context.Context, url, dest string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".download-*.tmp")
	if err != nil {
		return false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("renaming temp file: %w", err)
	}
	return true, nil
}
