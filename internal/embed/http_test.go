package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbedService(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := embedResponse{Embeddings: make([][]float32, len(req.Texts))}
		for i := range req.Texts {
			vec := make([]float32, dims)
			vec[i%dims] = 1
			resp.Embeddings[i] = vec
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPEmbedder(t *testing.T) {
	srv := newEmbedService(t, 4)
	e := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Dimensions: 4})
	defer e.Close()
	ctx := context.Background()

	assert.True(t, e.Available(ctx))

	vecs, err := e.EmbedBatch(ctx, []string{"a dog", "a cat"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Len(t, vecs[0], 4)
	// Vectors come back unit-normalized.
	assert.InDelta(t, 1.0, float64(vecs[0][0]), 1e-5)
}

func TestHTTPEmbedderDimensionCheck(t *testing.T) {
	srv := newEmbedService(t, 4)
	e := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Dimensions: 8})
	defer e.Close()

	_, err := e.Embed(context.Background(), "a dog")
	assert.ErrorContains(t, err, "dimension")
}

func TestHTTPEmbedderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Dimensions: 4})
	defer e.Close()

	_, err := e.Embed(context.Background(), "a dog")
	assert.ErrorContains(t, err, "503")
	assert.False(t, e.Available(context.Background()))
}

func TestNewEmbedderFallsBackToStatic(t *testing.T) {
	// Unreachable endpoint forces the static fallback in auto mode.
	e, err := NewEmbedder(context.Background(), ProviderAuto,
		HTTPConfig{Endpoint: "http://127.0.0.1:1", Dimensions: 4}, nil)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, "static", e.ModelName())
	assert.Equal(t, StaticDimensions, e.Dimensions())
}
