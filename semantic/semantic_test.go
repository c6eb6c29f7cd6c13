package semantic

import (
	"context"
	"errors"
	"math"
	"testing"
)

type fixedBackend struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fixedBackend) Name() string { return "fixed" }

func (f *fixedBackend) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func TestSimilarityRemapsToUnitRange(t *testing.T) {
	backend := &fixedBackend{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {-1, 0},
		"c": {1, 0},
	}}
	scorer := NewScorer(backend, nil)

	same, err := scorer.Similarity(context.Background(), "a", "c")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if math.Abs(same-1) > 1e-9 {
		t.Fatalf("parallel vectors should score 1, got %f", same)
	}

	opposite, err := scorer.Similarity(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if math.Abs(opposite) > 1e-9 {
		t.Fatalf("opposite vectors should score 0, got %f", opposite)
	}
}

func TestSimilarityEmptyInputSkipsBackend(t *testing.T) {
	backend := &fixedBackend{}
	scorer := NewScorer(backend, nil)
	got, err := scorer.Similarity(context.Background(), "", "anything")
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("empty input should score 0, got %f", got)
	}
	if backend.calls != 0 {
		t.Fatalf("backend must not be invoked for empty input, calls=%d", backend.calls)
	}
}

func TestSimilarityPropagatesBackendError(t *testing.T) {
	backend := &fixedBackend{err: errors.New("model not loaded")}
	scorer := NewScorer(backend, nil)
	if _, err := scorer.Similarity(context.Background(), "a", "b"); err == nil {
		t.Fatalf("expected backend error to propagate")
	}
}

func TestCosineEdgeCases(t *testing.T) {
	if got := Cosine(nil, nil); got != 0 {
		t.Fatalf("empty vectors should score 0, got %f", got)
	}
	if got := Cosine([]float32{1, 2}, []float32{1}); got != 0 {
		t.Fatalf("mismatched lengths should score 0, got %f", got)
	}
	if got := Cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("zero vector should score 0, got %f", got)
	}
	if got := Cosine([]float32{3, 4}, []float32{3, 4}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors should score 1, got %f", got)
	}
}
