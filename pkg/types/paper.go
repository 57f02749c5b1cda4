// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sustain-research CLI:
// harvested paper records, indexed documents, and stage configurations.
package types

import "time"

// Placeholder values used by sources when a field is missing from the
// provider response.
const (
	NoTitle             = "No title"
	NoAbstract          = "No abstract"
	NoAbstractAvailable = "No abstract available"
)

// PaperRecord is a normalized search result from one academic source.
// Records are created per result and never modified afterwards.
type PaperRecord struct {
	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order. PubMed records leave it empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication date when the source reports one.
	Published *time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// Summary is the abstract, or a placeholder when the source has none.
	Summary string `json:"summary" yaml:"summary"`

	// PDFURL is the direct PDF link. Empty when unavailable.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Source names the backend that produced the record (e.g. "arxiv", "pubmed").
	Source string `json:"source" yaml:"source"`
}

// HasPDF reports whether the record carries a PDF link.
func (p PaperRecord) HasPDF() bool {
	return p.PDFURL != ""
}
