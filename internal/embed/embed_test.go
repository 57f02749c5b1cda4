// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sustain-research/pkg/types"
)

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), types.EmbeddingConfig{Kind: "word2vec"})
	assert.ErrorContains(t, err, "word2vec")
}

func TestNewRequiresKeys(t *testing.T) {
	_, err := New(context.Background(), types.EmbeddingConfig{Kind: types.EmbedderGemini})
	assert.Error(t, err)
	_, err = New(context.Background(), types.EmbeddingConfig{Kind: types.EmbedderOpenAI})
	assert.Error(t, err)
}

func TestOpenAIEmbed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ESRS E1", req.Input)
		assert.Equal(t, "text-embedding-3-small", req.Model)
		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2,0.3]}]}`)
	}))
	defer ts.Close()

	e, err := NewOpenAI(types.EmbeddingConfig{BaseURL: ts.URL + "/v1/", APIKey: "sk-test"})
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "ESRS E1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIEmbedOllamaShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.Equal(t, "x", body["prompt"])
		assert.Equal(t, "x", body["input"])
		assert.Equal(t, "nomic-embed-text", body["model"])
		fmt.Fprint(w, `{"embedding":[1,2]}`)
	}))
	defer ts.Close()

	e, err := NewOpenAI(types.EmbeddingConfig{BaseURL: ts.URL, Model: "nomic-embed-text"})
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
}

func TestOpenAIEmbedErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusUnauthorized, `{"error":"bad key"}`, "401"},
		{"empty", http.StatusOK, `{"data":[]}`, "no embedding"},
		{"garbage", http.StatusOK, `not json`, "decoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			e, err := NewOpenAI(types.EmbeddingConfig{BaseURL: ts.URL})
			require.NoError(t, err)
			_, err = e.Embed(context.Background(), "x")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestGeminiEmbed(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, DefaultGeminiModel)
		w.Header().Set("Content-Type", "application/json")
		// Single and batch reply shapes, whichever endpoint the SDK calls.
		fmt.Fprint(w, `{"embedding":{"values":[0.5,0.25]},"embeddings":[{"values":[0.5,0.25]}]}`)
	}))
	defer ts.Close()

	e, err := NewGemini(context.Background(), types.EmbeddingConfig{APIKey: "g-key", BaseURL: ts.URL})
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "double materiality")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vec)
	assert.Equal(t, 1, calls)
}
