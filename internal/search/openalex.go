// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/sustain-research/internal/httputil"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex works API. It is not part of the default
// source set.
type OpenAlex struct {
	Client    *http.Client
	UserAgent string
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the source name.
func (o *OpenAlex) Name() string { return "OpenAlex" }

// Search queries the OpenAlex API and returns records.
func (o *OpenAlex) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	perPage := maxOrDefault(maxResults)
	if perPage > 200 {
		perPage = 200
	}

	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}

	body, err := httputil.GetBody(ctx, o.Client, openAlexSearchBase+"?"+params.Encode(), o.UserAgent, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}

	var oar openAlexResponse
	if err := json.Unmarshal(body, &oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	records := make([]types.PaperRecord, 0, len(oar.Results))
	for _, work := range oar.Results {
		r := types.PaperRecord{
			Title:   work.Title,
			Summary: reconstructAbstract(work.AbstractInvertedIndex),
			Source:  "openalex",
		}
		if r.Title == "" {
			r.Title = types.NoTitle
		}
		if r.Summary == "" {
			r.Summary = types.NoAbstractAvailable
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				r.Authors = append(r.Authors, authorship.Author.DisplayName)
			}
		}

		if work.PublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", work.PublicationDate); parseErr == nil {
				r.Published = &t
			}
		}

		if work.BestOALocation != nil {
			r.PDFURL = work.BestOALocation.PDFURL
		}

		records = append(records, r)
	}
	return records, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	PublicationDate       string               `json:"publication_date"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	BestOALocation        *openAlexLocation    `json:"best_oa_location"`
}

type openAlexAuthorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type openAlexLocation struct {
	PDFURL string `json:"pdf_url"`
}
