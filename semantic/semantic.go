// Package semantic scores meaning-level closeness between two texts via a
// pluggable embedding backend. Backends are black boxes mapping text to a
// fixed-length vector; the scorer owns only the cosine computation and its
// remapping to [0,1].
package semantic

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/nehalmr/evalkit/observability"
)

// Backend turns text into a fixed-length embedding vector.
type Backend interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Scorer computes normalized semantic similarity.
type Scorer struct {
	backend Backend
	logger  observability.Logger
}

// NewScorer wraps an embedding backend. A nil logger is replaced with a
// no-op.
func NewScorer(backend Backend, logger observability.Logger) *Scorer {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Scorer{backend: backend, logger: logger}
}

// Similarity embeds both texts and returns their cosine similarity remapped
// linearly from [-1,1] to [0,1]. Either side empty returns 0 without
// invoking the backend.
func (s *Scorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}
	start := time.Now()
	va, err := s.backend.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.backend.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("embeddings computed",
		observability.String("backend", s.backend.Name()),
		observability.Int64(observability.MetricEmbeddingTime, time.Since(start).Milliseconds()),
	)
	return (Cosine(va, vb) + 1) / 2, nil
}

// Cosine returns the cosine similarity of two vectors, clamped to [-1,1].
// Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if c > 1 {
		c = 1
	}
	if c < -1 {
		c = -1
	}
	return c
}
