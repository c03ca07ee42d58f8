package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pawmatch/pawmatch/internal/retry"
)

// HTTPConfig configures the HTTP embedding client.
type HTTPConfig struct {
	// Endpoint is the embedding service URL.
	Endpoint string

	// Model is the model name requested from the service.
	Model string

	// Dimensions is the expected embedding dimension.
	Dimensions int

	// Timeout bounds each request.
	Timeout time.Duration
}

// DefaultHTTPConfig returns the default client configuration for a
// local sentence-transformer service.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Endpoint:   "http://localhost:8091/embed",
		Model:      "all-MiniLM-L6-v2",
		Dimensions: DefaultDimensions,
		Timeout:    DefaultTimeout,
	}
}

// HTTPEmbedder talks to an external embedding service.
type HTTPEmbedder struct {
	config HTTPConfig
	client *http.Client
	retry  retry.Config
}

// NewHTTPEmbedder creates an HTTP embedding client.
func NewHTTPEmbedder(config HTTPConfig) *HTTPEmbedder {
	if config.Endpoint == "" {
		config.Endpoint = DefaultHTTPConfig().Endpoint
	}
	if config.Dimensions <= 0 {
		config.Dimensions = DefaultDimensions
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &HTTPEmbedder{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		retry:  retry.DefaultConfig(),
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed generates an embedding for a single text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request,
// retrying transient failures with backoff.
func (e *HTTPEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	return retry.Do(ctx, e.retry, func() ([][]float32, error) {
		return e.embedBatch(ctx, texts)
	})
}

func (e *HTTPEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Texts: texts, Model: e.config.Model})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, string(data))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors",
			len(texts), len(decoded.Embeddings))
	}

	for i, v := range decoded.Embeddings {
		if len(v) != e.config.Dimensions {
			return nil, fmt.Errorf("embedding %d has dimension %d, expected %d",
				i, len(v), e.config.Dimensions)
		}
		decoded.Embeddings[i] = normalizeVector(v)
	}
	return decoded.Embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HTTPEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// ModelName returns the model identifier.
func (e *HTTPEmbedder) ModelName() string {
	return e.config.Model
}

// Available probes the service with a tiny request.
func (e *HTTPEmbedder) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := e.EmbedBatch(probeCtx, []string{"ping"})
	return err == nil
}

// Close releases resources.
func (e *HTTPEmbedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

var _ Embedder = (*HTTPEmbedder)(nil)
