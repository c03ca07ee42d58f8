package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// BruteForceStore implements VectorStore with an exact linear scan.
// At catalog scale (tens of thousands of pets) the scan is fast
// enough, and exact results make test expectations deterministic.
type BruteForceStore struct {
	mu      sync.RWMutex
	config  VectorStoreConfig
	ids     []string
	vectors map[string][]float32
	closed  bool
}

// NewBruteForceStore creates an exact-scan vector store.
func NewBruteForceStore(cfg VectorStoreConfig) (*BruteForceStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Metric == "" {
		cfg.Metric = "cos"
	}
	return &BruteForceStore{
		config:  cfg,
		vectors: make(map[string][]float32),
	}, nil
}

// Add inserts vectors with their IDs. An existing ID is replaced.
func (s *BruteForceStore) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch: %d vs %d", len(ids), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	for _, v := range vectors {
		if len(v) != s.config.Dimensions {
			return ErrDimensionMismatch{Expected: s.config.Dimensions, Got: len(v)}
		}
	}

	for i, id := range ids {
		if _, exists := s.vectors[id]; !exists {
			s.ids = append(s.ids, id)
		}
		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		if s.config.Metric == "cos" {
			normalizeVectorInPlace(vec)
		}
		s.vectors[id] = vec
	}
	return nil
}

// Search scans all vectors and returns the k nearest, best first.
func (s *BruteForceStore) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if len(query) != s.config.Dimensions {
		return nil, ErrDimensionMismatch{Expected: s.config.Dimensions, Got: len(query)}
	}

	normalizedQuery := make([]float32, len(query))
	copy(normalizedQuery, query)
	if s.config.Metric == "cos" {
		normalizeVectorInPlace(normalizedQuery)
	}

	results := make([]*VectorResult, 0, len(s.ids))
	for _, id := range s.ids {
		distance := s.distance(normalizedQuery, s.vectors[id])
		results = append(results, &VectorResult{
			ID:       id,
			Distance: distance,
			Score:    distanceToScore(distance, s.config.Metric),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *BruteForceStore) distance(a, b []float32) float32 {
	switch s.config.Metric {
	case "l2":
		var sum float64
		for i := range a {
			d := float64(a[i] - b[i])
			sum += d * d
		}
		return float32(math.Sqrt(sum))
	default:
		// Both vectors are unit length, so cosine distance reduces
		// to 1 - dot product.
		var dot float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
		return float32(1.0 - dot)
	}
}

// Delete removes vectors by ID.
func (s *BruteForceStore) Delete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	for _, id := range ids {
		if _, exists := s.vectors[id]; !exists {
			continue
		}
		delete(s.vectors, id)
		for i, existing := range s.ids {
			if existing == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Count returns the number of vectors.
func (s *BruteForceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0
	}
	return len(s.vectors)
}

// Close releases resources.
func (s *BruteForceStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.vectors = nil
	s.ids = nil
	return nil
}

var _ VectorStore = (*BruteForceStore)(nil)
