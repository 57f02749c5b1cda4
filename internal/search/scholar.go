// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/sustain-research/internal/httputil"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// scholarAPIBase is the Semantic Scholar Graph API base. Declared as a var
// so tests can substitute an httptest server.
var scholarAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	scholarFields         = "title,abstract,authors,year,publicationDate,openAccessPdf"
	defaultScholarDelay   = time.Second
	scholarSearchPageSize = 100
)

// Scholar queries the Semantic Scholar Graph API. A search call returns
// candidate paper IDs; each candidate is then filled with a detail request.
// Detail requests are paced by a fixed delay to stay under the public rate
// limit.
type Scholar struct {
	Client    *http.Client
	UserAgent string
	APIKey    string

	// Delay is the pause between detail requests (default 1s).
	Delay time.Duration

	// MaxRetries enables 429 backoff when positive.
	MaxRetries int
}

// Name returns the source name.
func (s *Scholar) Name() string { return "Semantic Scholar" }

// Search returns up to maxResults filled records.
func (s *Scholar) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	maxResults = maxOrDefault(maxResults)

	ids, err := s.searchIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	delay := s.Delay
	if delay <= 0 {
		delay = defaultScholarDelay
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	records := make([]types.PaperRecord, 0, len(ids))
	for i, id := range ids {
		if i >= maxResults {
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		paper, err := s.fill(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("filling paper %s: %w", id, err)
		}
		records = append(records, paper.record())
	}
	return records, nil
}

func (s *Scholar) searchIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	limit := maxResults
	if limit > scholarSearchPageSize {
		limit = scholarSearchPageSize
	}
	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {"paperId"},
	}

	var sr scholarSearchResponse
	if err := s.getJSON(ctx, scholarAPIBase+"/paper/search?"+params.Encode(), &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar search: %w", err)
	}

	ids := make([]string, 0, len(sr.Data))
	for _, p := range sr.Data {
		if p.PaperID != "" {
			ids = append(ids, p.PaperID)
		}
	}
	return ids, nil
}

func (s *Scholar) fill(ctx context.Context, paperID string) (scholarPaper, error) {
	params := url.Values{"fields": {scholarFields}}
	var p scholarPaper
	err := s.getJSON(ctx, scholarAPIBase+"/paper/"+url.PathEscape(paperID)+"?"+params.Encode(), &p)
	return p, err
}

func (s *Scholar) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, s.MaxRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// Semantic Scholar API JSON structures.
type scholarSearchResponse struct {
	Total int `json:"total"`
	Data  []struct {
		PaperID string `json:"paperId"`
	} `json:"data"`
}

type scholarPaper struct {
	PaperID         string             `json:"paperId"`
	Title           string             `json:"title"`
	Abstract        string             `json:"abstract"`
	Year            int                `json:"year"`
	PublicationDate string             `json:"publicationDate"`
	Authors         []scholarAuthor    `json:"authors"`
	OpenAccessPDF   *scholarOpenAccess `json:"openAccessPdf"`
}

type scholarAuthor struct {
	Name string `json:"name"`
}

type scholarOpenAccess struct {
	URL string `json:"url"`
}

func (p scholarPaper) record() types.PaperRecord {
	r := types.PaperRecord{
		Title:   p.Title,
		Summary: p.Abstract,
		Source:  "scholar",
	}
	if r.Title == "" {
		r.Title = types.NoTitle
	}
	if r.Summary == "" {
		r.Summary = types.NoAbstractAvailable
	}
	for _, a := range p.Authors {
		r.Authors = append(r.Authors, a.Name)
	}
	if p.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", p.PublicationDate); err == nil {
			r.Published = &t
		}
	} else if p.Year > 0 {
		t := time.Date(p.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		r.Published = &t
	}
	if p.OpenAccessPDF != nil {
		r.PDFURL = p.OpenAccessPDF.URL
	}
	return r
}
