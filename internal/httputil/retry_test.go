// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// statusServer replies with statuses in order and repeats the last one.
func statusServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(calls.Add(1))
		if n > len(statuses) {
			n = len(statuses)
		}
		w.WriteHeader(statuses[n-1])
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"ok first try", []int{200}, 5, 200, 1},
		{"two 429 then ok", []int{429, 429, 200}, 5, 200, 3},
		{"retries exhausted returns last 429", []int{429}, 3, 429, 4},
		{"zero retries is one attempt", []int{429}, 0, 429, 1},
		{"negative retries is one attempt", []int{429}, -2, 429, 1},
		{"server error is not retried", []int{500}, 5, 500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := statusServer(t, tt.statuses...)
			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestDoWithRetry_CancelDuringBackoff(t *testing.T) {
	ts, calls := statusServer(t, http.StatusTooManyRequests)

	old := RetryBaseDelay
	RetryBaseDelay = time.Second
	t.Cleanup(func() { RetryBaseDelay = old })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "sustain-research/test", r.Header.Get("User-Agent"))
		w.Write([]byte("payload"))
	}))
	defer ts.Close()

	data, err := GetBody(context.Background(), ts.Client(), ts.URL+"/ok", "sustain-research/test", 0)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = GetBody(context.Background(), ts.Client(), ts.URL+"/missing", "sustain-research/test", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestGetBody_ClosedServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := GetBody(context.Background(), http.DefaultClient, url, "", 0)
	assert.Error(t, err)
}
