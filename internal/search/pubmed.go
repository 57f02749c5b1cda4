// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/sustain-research/internal/httputil"
	"github.com/pdiddy/sustain-research/pkg/types"
)

// pubmedAPIBase is the NCBI E-utilities base. Declared as a var so tests
// can substitute an httptest server.
var pubmedAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// PubMed queries PubMed through E-utilities: one esearch call for PMIDs,
// then one efetch call per PMID.
type PubMed struct {
	Client    *http.Client
	UserAgent string
	// APIKey is an optional NCBI key for higher rate limits.
	APIKey string
}

// Name returns the source name.
func (p *PubMed) Name() string { return "PubMed" }

// Search returns one record per PMID. PubMed records carry no authors and
// no PDF link.
func (p *PubMed) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	ids, err := p.searchIDs(ctx, query, maxOrDefault(maxResults))
	if err != nil {
		return nil, err
	}

	records := make([]types.PaperRecord, 0, len(ids))
	for _, pmid := range ids {
		r, err := p.fetch(ctx, pmid)
		if err != nil {
			return nil, fmt.Errorf("fetching PMID %s: %w", pmid, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (p *PubMed) searchIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
	}
	if p.APIKey != "" {
		params.Set("api_key", p.APIKey)
	}

	body, err := httputil.GetBody(ctx, p.Client, pubmedAPIBase+"esearch.fcgi?"+params.Encode(), p.UserAgent, 0)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}

	var sr esearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	if sr.Result == nil {
		return nil, errors.New("esearch response missing esearchresult")
	}
	return sr.Result.IDList, nil
}

func (p *PubMed) fetch(ctx context.Context, pmid string) (types.PaperRecord, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}
	if p.APIKey != "" {
		params.Set("api_key", p.APIKey)
	}

	body, err := httputil.GetBody(ctx, p.Client, pubmedAPIBase+"efetch.fcgi?"+params.Encode(), p.UserAgent, 0)
	if err != nil {
		return types.PaperRecord{}, fmt.Errorf("efetch request: %w", err)
	}

	texts, err := firstElementTexts(body, "ArticleTitle", "AbstractText")
	if err != nil {
		return types.PaperRecord{}, fmt.Errorf("parsing efetch response: %w", err)
	}

	r := types.PaperRecord{
		Title:   types.NoTitle,
		Summary: types.NoAbstract,
		Source:  "pubmed",
	}
	if t, ok := texts["ArticleTitle"]; ok {
		r.Title = t
	}
	if a, ok := texts["AbstractText"]; ok {
		r.Summary = a
	}
	return r, nil
}

type esearchResponse struct {
	Result *struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// firstElementTexts walks an XML document and returns, for each requested
// element name, the concatenated character data of its first occurrence,
// including text inside nested inline markup such as <i> or <sup>.
func firstElementTexts(data []byte, names ...string) (map[string]string, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	found := make(map[string]string, len(names))

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	var (
		capturing string
		depth     int
		buf       strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if capturing != "" {
				depth++
				continue
			}
			if want[t.Name.Local] {
				if _, done := found[t.Name.Local]; !done {
					capturing = t.Name.Local
					depth = 0
					buf.Reset()
				}
			}
		case xml.EndElement:
			if capturing == "" {
				continue
			}
			if depth > 0 {
				depth--
				continue
			}
			found[capturing] = buf.String()
			capturing = ""
			if len(found) == len(want) {
				return found, nil
			}
		case xml.CharData:
			if capturing != "" {
				buf.Write(t)
			}
		}
	}
	return found, nil
}
