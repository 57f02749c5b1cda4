// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sustain-research/internal/httputil"
	"github.com/pdiddy/sustain-research/pkg/types"
)

func TestScholarSearch(t *testing.T) {
	var fills []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		switch {
		case strings.HasSuffix(r.URL.Path, "/paper/search"):
			assert.Equal(t, "paperId", r.URL.Query().Get("fields"))
			fmt.Fprint(w, `{"total":3,"data":[{"paperId":"p1"},{"paperId":"p2"},{"paperId":"p3"}]}`)
		case strings.HasPrefix(r.URL.Path, "/s2/paper/"):
			id := strings.TrimPrefix(r.URL.Path, "/s2/paper/")
			fills = append(fills, id)
			if id == "p1" {
				fmt.Fprint(w, `{"paperId":"p1","title":"GRI vs ESRS","abstract":"A comparison.",
"authors":[{"name":"Jane Doe"}],"publicationDate":"2023-05-04",
"openAccessPdf":{"url":"https://example.org/p1.pdf"}}`)
				return
			}
			fmt.Fprintf(w, `{"paperId":%q,"year":2021}`, id)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()
	overrideBases(t, ts)

	s := &Scholar{Client: ts.Client(), APIKey: "secret", Delay: time.Millisecond}
	records, err := s.Search(context.Background(), "gri esrs", 2)
	require.NoError(t, err)
	require.Len(t, records, 2, "stops after max results")
	assert.Equal(t, []string{"p1", "p2"}, fills)

	assert.Equal(t, "GRI vs ESRS", records[0].Title)
	assert.Equal(t, "A comparison.", records[0].Summary)
	assert.Equal(t, []string{"Jane Doe"}, records[0].Authors)
	assert.Equal(t, "https://example.org/p1.pdf", records[0].PDFURL)
	require.NotNil(t, records[0].Published)
	assert.Equal(t, time.May, records[0].Published.Month())

	assert.Equal(t, types.NoTitle, records[1].Title)
	assert.Equal(t, types.NoAbstractAvailable, records[1].Summary)
	assert.Empty(t, records[1].PDFURL)
	require.NotNil(t, records[1].Published)
	assert.Equal(t, 2021, records[1].Published.Year())
}

func TestScholarRetriesOnlyWhenEnabled(t *testing.T) {
	origDelay := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = origDelay }()

	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer ts.Close()
	overrideBases(t, ts)

	_, err := (&Scholar{Client: ts.Client(), Delay: time.Millisecond}).Search(context.Background(), "q", 5)
	assert.Error(t, err, "429 without retries fails the source")
	assert.Equal(t, 1, calls)

	calls = 0
	records, err := (&Scholar{Client: ts.Client(), Delay: time.Millisecond, MaxRetries: 1}).Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, calls)
}

func TestScholarHonorsCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"paperId":"p1"},{"paperId":"p2"}]}`)
	}))
	defer ts.Close()
	overrideBases(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Scholar{Client: ts.Client(), Delay: time.Hour}).Search(ctx, "q", 5)
	assert.Error(t, err)
}
