package embed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ProviderType selects an embedding provider.
type ProviderType string

const (
	// ProviderHTTP uses an external embedding service.
	ProviderHTTP ProviderType = "http"

	// ProviderStatic uses hash-based embeddings (offline fallback).
	ProviderStatic ProviderType = "static"

	// ProviderAuto probes the service and falls back to static.
	ProviderAuto ProviderType = "auto"
)

// NewEmbedder creates an embedder for the provider, wrapped in the
// query cache. The PAWMATCH_EMBEDDER environment variable overrides
// the provider ("http", "static").
func NewEmbedder(ctx context.Context, provider ProviderType, cfg HTTPConfig, logger *slog.Logger) (Embedder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if env := os.Getenv("PAWMATCH_EMBEDDER"); env != "" {
		provider = ProviderType(strings.ToLower(env))
	}

	var embedder Embedder
	switch provider {
	case ProviderHTTP:
		e := NewHTTPEmbedder(cfg)
		if !e.Available(ctx) {
			return nil, fmt.Errorf("embedding service unavailable at %s", cfg.Endpoint)
		}
		embedder = e

	case ProviderStatic:
		embedder = NewStaticEmbedder()

	case ProviderAuto, "":
		e := NewHTTPEmbedder(cfg)
		if e.Available(ctx) {
			embedder = e
		} else {
			logger.Warn("embedding service unreachable, using static embedder",
				"endpoint", cfg.Endpoint)
			embedder = NewStaticEmbedder()
		}

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}

	logger.Info("embedder ready",
		"model", embedder.ModelName(),
		"dimensions", embedder.Dimensions())

	return NewCachedEmbedder(embedder, DefaultEmbeddingCacheSize), nil
}
