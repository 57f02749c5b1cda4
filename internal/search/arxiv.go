// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/sustain-research/internal/httputil"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv API, ranked by relevance.
type Arxiv struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the source name.
func (a *Arxiv) Name() string { return "Arxiv" }

// Search queries the arXiv API and returns records.
func (a *Arxiv) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxOrDefault(maxResults))},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	body, err := httputil.GetBody(ctx, a.Client, arxivAPIBase+"?"+params.Encode(), a.UserAgent, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]types.PaperRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		r := types.PaperRecord{
			Title:   collapseSpace(entry.Title),
			Summary: strings.TrimSpace(entry.Summary),
			PDFURL:  entry.pdfURL(),
			Source:  "arxiv",
		}
		for _, au := range entry.Authors {
			r.Authors = append(r.Authors, strings.TrimSpace(au.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			r.Published = &t
		}
		records = append(records, r)
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// pdfURL returns the entry's PDF link, or derives it from the abstract URL.
func (e arxivEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return ""
}

// collapseSpace joins the whitespace-separated fields of s with single
// spaces. arXiv wraps long titles across lines.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
