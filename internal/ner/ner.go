// Package ner wraps the external named-entity-recognition inference
// service. The service is optional: when unreachable the facet
// extractor falls back to its rule parser alone.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pawmatch/pawmatch/internal/retry"
)

// Span is one labeled entity with character offsets into the utterance.
type Span struct {
	Label      string  `json:"entity_group"`
	Text       string  `json:"word"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"score"`
}

// Len returns the span length in characters.
func (s Span) Len() int { return s.End - s.Start }

// NormalLabel strips BIO prefixes and uppercases the label.
func (s Span) NormalLabel() string {
	l := strings.ToUpper(s.Label)
	l = strings.TrimPrefix(l, "B-")
	l = strings.TrimPrefix(l, "I-")
	return l
}

// Extractor produces entity spans for an utterance.
type Extractor interface {
	// Extract returns labeled spans for the text.
	Extract(ctx context.Context, text string) ([]Span, error)

	// Available checks whether the extractor can serve requests.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

// HTTPConfig configures the HTTP NER client.
type HTTPConfig struct {
	// Endpoint is the inference service URL.
	Endpoint string
	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// DefaultHTTPConfig returns defaults for a local inference service.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Endpoint: "http://localhost:8092/ner",
		Timeout:  10 * time.Second,
	}
}

// HTTPExtractor calls an NER inference service over HTTP.
type HTTPExtractor struct {
	endpoint string
	client   *http.Client
	retry    retry.Config
}

var _ Extractor = (*HTTPExtractor)(nil)

// NewHTTPExtractor creates an HTTP-backed extractor.
func NewHTTPExtractor(cfg HTTPConfig) *HTTPExtractor {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultHTTPConfig().Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultHTTPConfig().Timeout
	}
	return &HTTPExtractor{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		retry:    retry.DefaultConfig(),
	}
}

type nerRequest struct {
	Text string `json:"text"`
}

// Extract posts the utterance and decodes the labeled spans, retrying
// transient failures with backoff.
func (e *HTTPExtractor) Extract(ctx context.Context, text string) ([]Span, error) {
	return retry.Do(ctx, e.retry, func() ([]Span, error) {
		return e.extract(ctx, text)
	})
}

func (e *HTTPExtractor) extract(ctx context.Context, text string) ([]Span, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal ner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner service returned status %d", resp.StatusCode)
	}

	var spans []Span
	if err := json.NewDecoder(resp.Body).Decode(&spans); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	return spans, nil
}

// Available probes the service with an empty request.
func (e *HTTPExtractor) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := e.Extract(ctx, "ping")
	return err == nil
}

// Close releases the underlying connections.
func (e *HTTPExtractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// Noop is an extractor that returns no spans. Used when no NER service
// is configured; the rule parser carries extraction alone.
type Noop struct{}

var _ Extractor = (*Noop)(nil)

// Extract returns no spans.
func (Noop) Extract(_ context.Context, _ string) ([]Span, error) { return nil, nil }

// Available always reports true.
func (Noop) Available(_ context.Context) bool { return true }

// Close is a no-op.
func (Noop) Close() error { return nil }
