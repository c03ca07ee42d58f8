// Package store holds the retrieval indexes: a Bleve BM25 index over
// pet profile text and a vector store for dense embeddings (HNSW with
// a brute-force fallback).
package store

import (
	"context"
	"fmt"
)

// Document is a unit of text to index, keyed by the pet's document ID.
type Document struct {
	ID      string
	Content string
}

// BM25Result is a single keyword search hit.
type BM25Result struct {
	DocID string
	Score float64
}

// IndexStats reports BM25 index statistics.
type IndexStats struct {
	DocumentCount int
}

// BM25Index provides keyword search scored by BM25.
type BM25Index interface {
	// Index adds documents to the index.
	Index(ctx context.Context, docs []*Document) error

	// Search returns documents matching query, best first.
	Search(ctx context.Context, query string, limit int) ([]*BM25Result, error)

	// Delete removes documents from the index.
	Delete(ctx context.Context, docIDs []string) error

	// Stats returns index statistics.
	Stats() *IndexStats

	Close() error
}

// BM25Config configures the BM25 index.
type BM25Config struct {
	// StopWords are filtered out during analysis.
	StopWords []string

	// MinTokenLength is the minimum token length to index.
	MinTokenLength int
}

// DefaultBM25Config returns the default BM25 configuration.
func DefaultBM25Config() BM25Config {
	return BM25Config{
		StopWords:      DefaultStopWords,
		MinTokenLength: 2,
	}
}

// DefaultStopWords are common English function words that carry no
// signal in pet profile text.
var DefaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "or", "she",
	"that", "the", "to", "was", "were", "will", "with", "this",
	"they", "them", "their", "very", "please", "also",
}

// VectorResult is a single dense search hit.
type VectorResult struct {
	ID       string  // Pet document ID
	Distance float32 // Lower is more similar (0-2 for cosine)
	Score    float32 // Normalized similarity (0-1)
}

// VectorStoreConfig configures the vector store.
type VectorStoreConfig struct {
	// Dimensions is the embedding dimension.
	Dimensions int

	// Metric is the distance metric: "cos" (cosine) or "l2" (euclidean).
	Metric string

	// M is HNSW max connections per layer.
	M int

	// EfSearch is HNSW query-time search width.
	EfSearch int
}

// DefaultVectorStoreConfig returns sensible defaults for the vector
// store at the given embedding dimension.
func DefaultVectorStoreConfig(dimensions int) VectorStoreConfig {
	return VectorStoreConfig{
		Dimensions: dimensions,
		Metric:     "cos",
		M:          16,
		EfSearch:   64,
	}
}

// VectorStore provides nearest-neighbor search over embeddings.
type VectorStore interface {
	// Add inserts vectors with their IDs. An existing ID is replaced.
	Add(ctx context.Context, ids []string, vectors [][]float32) error

	// Search finds the k nearest neighbors to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)

	// Delete removes vectors by ID.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of vectors.
	Count() int

	Close() error
}

// ErrDimensionMismatch indicates a vector dimension mismatch between
// the store and an incoming vector.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
