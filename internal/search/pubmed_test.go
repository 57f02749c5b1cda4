// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sustain-research/pkg/types"
)

func TestPubMedSearch(t *testing.T) {
	var efetchCalls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case strings.HasSuffix(r.URL.Path, "esearch.fcgi"):
			assert.Equal(t, "pubmed", q.Get("db"))
			assert.Equal(t, "json", q.Get("retmode"))
			assert.Equal(t, "sustainability reporting", q.Get("term"))
			assert.Equal(t, "k1", q.Get("api_key"))
			fmt.Fprint(w, `{"esearchresult":{"idlist":["111","222"]}}`)
		case strings.HasSuffix(r.URL.Path, "efetch.fcgi"):
			efetchCalls++
			assert.Equal(t, "xml", q.Get("retmode"))
			if q.Get("id") == "111" {
				fmt.Fprint(w, `<PubmedArticleSet><PubmedArticle><Article>
<ArticleTitle>Carbon <i>accounting</i> in hospitals</ArticleTitle>
<Abstract><AbstractText>First part.</AbstractText><AbstractText>Second part.</AbstractText></Abstract>
</Article></PubmedArticle></PubmedArticleSet>`)
				return
			}
			fmt.Fprint(w, `<PubmedArticleSet><PubmedArticle><Article></Article></PubmedArticle></PubmedArticleSet>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()
	overrideBases(t, ts)

	p := &PubMed{Client: ts.Client(), APIKey: "k1"}
	records, err := p.Search(context.Background(), "sustainability reporting", 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, efetchCalls, "one efetch per PMID")

	assert.Equal(t, "Carbon accounting in hospitals", records[0].Title)
	assert.Equal(t, "First part.", records[0].Summary)
	assert.Empty(t, records[0].Authors)
	assert.False(t, records[0].HasPDF())
	assert.Equal(t, "pubmed", records[0].Source)

	assert.Equal(t, types.NoTitle, records[1].Title)
	assert.Equal(t, types.NoAbstract, records[1].Summary)
}

func TestPubMedMissingSearchResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"header":{}}`)
	}))
	defer ts.Close()
	overrideBases(t, ts)

	p := &PubMed{Client: ts.Client()}
	_, err := p.Search(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "esearchresult")
}

func TestPubMedFetchFailureFailsSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "esearch.fcgi") {
			fmt.Fprint(w, `{"esearchresult":{"idlist":["1"]}}`)
			return
		}
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()
	overrideBases(t, ts)

	p := &PubMed{Client: ts.Client()}
	_, err := p.Search(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "PMID 1")
}

func TestFirstElementTexts(t *testing.T) {
	data := []byte(`<root><A>one &amp; <b>bold</b></A><A>ignored</A><B>two</B></root>`)
	got, err := firstElementTexts(data, "A", "B", "C")
	require.NoError(t, err)
	assert.Equal(t, "one & bold", got["A"])
	assert.Equal(t, "two", got["B"])
	_, ok := got["C"]
	assert.False(t, ok)
}
