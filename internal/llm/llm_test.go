// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sustain-research/pkg/types"
)

func newMessagesServer(t *testing.T, status int, body string, got *map[string]any) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(types.AIConfig{}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewDefaultsModel(t *testing.T) {
	c, err := New(types.AIConfig{APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
}

func TestComplete(t *testing.T) {
	var req map[string]any
	ts := newMessagesServer(t, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant","model":"m",
"content":[{"type":"text","text":"Scope 3 "},{"type":"text","text":"emissions."}],
"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":2}}`, &req)

	c, err := New(types.AIConfig{APIKey: "test-key", BaseURL: ts.URL, Model: "m"}, ts.Client())
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "What is scope 3?", Options{Temperature: 0.4, MaxTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, "Scope 3 emissions.", got)

	assert.Equal(t, "m", req["model"])
	assert.EqualValues(t, 500, req["max_tokens"])
	assert.InDelta(t, 0.4, req["temperature"], 1e-9)
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestCompleteAPIError(t *testing.T) {
	ts := newMessagesServer(t, http.StatusBadRequest,
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`, nil)

	c, err := New(types.AIConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "q", Options{})
	assert.ErrorContains(t, err, "calling chat model")
}

func TestCompleteNoText(t *testing.T) {
	ts := newMessagesServer(t, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant","model":"m",
"content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`, nil)

	c, err := New(types.AIConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "q", Options{})
	assert.ErrorContains(t, err, "no text")
}
