package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"B-BREED", "BREED"},
		{"I-BREED", "BREED"},
		{"breed", "BREED"},
		{"COLOR", "COLOR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Span{Label: tt.label}.NormalLabel(), tt.label)
	}
}

func TestSpanLen(t *testing.T) {
	assert.Equal(t, 6, Span{Start: 2, End: 8}.Len())
}

func TestHTTPExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		spans := []Span{
			{Label: "B-BREED", Text: "poodle", Start: 2, End: 8, Confidence: 0.97},
		}
		require.NoError(t, json.NewEncoder(w).Encode(spans))
	}))
	defer srv.Close()

	e := NewHTTPExtractor(HTTPConfig{Endpoint: srv.URL})
	defer e.Close()

	spans, err := e.Extract(context.Background(), "a poodle please")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "BREED", spans[0].NormalLabel())
	assert.Equal(t, "poodle", spans[0].Text)
	assert.True(t, e.Available(context.Background()))
}

func TestHTTPExtractorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewHTTPExtractor(HTTPConfig{Endpoint: srv.URL})
	defer e.Close()

	_, err := e.Extract(context.Background(), "a poodle please")
	assert.ErrorContains(t, err, "503")
}

func TestNoop(t *testing.T) {
	var e Noop
	spans, err := e.Extract(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.True(t, e.Available(context.Background()))
	assert.NoError(t, e.Close())
}
