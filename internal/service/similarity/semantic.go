package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// lowest is the score assigned to comparisons that have no meaningful value.
const lowest = -1.0

type vectorResolver interface {
	Resolve(ctx context.Context, tokens []domain.Token) (map[domain.Token][]float32, map[domain.Token]error, error)
}

// Semantic scores tokens by cosine similarity of their embeddings. A Semantic
// holds the vectors of one run; build a fresh one per classification.
type Semantic struct {
	resolver vectorResolver
	vectors  map[domain.Token][]float32
}

// NewSemantic creates a run-scoped Semantic metric.
func NewSemantic(resolver vectorResolver) *Semantic {
	return &Semantic{resolver: resolver}
}

// SemanticFactory returns a Factory producing a fresh Semantic per run.
func SemanticFactory(resolver vectorResolver) Factory {
	return func() Metric { return NewSemantic(resolver) }
}

func (s *Semantic) Name() string { return domain.MetricSemantic.String() }

// Prepare embeds every distinct token once.
func (s *Semantic) Prepare(ctx context.Context, tokens []domain.Token) (map[domain.Token]error, error) {
	vectors, excluded, err := s.resolver.Resolve(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("semantic: prepare: %w", err)
	}
	s.vectors = vectors
	return excluded, nil
}

// Score returns the cosine similarity of the two embeddings, or -1 when
// either vector is missing or the comparison is degenerate.
func (s *Semantic) Score(a, b domain.Token) float64 {
	va, okA := s.vectors[a]
	vb, okB := s.vectors[b]
	if !okA || !okB {
		return lowest
	}
	c, err := Cosine(va, vb)
	if err != nil {
		return lowest
	}
	return c
}

// Cosine computes the cosine similarity of a and b, clamped to [-1,1].
// Empty, zero-norm or mismatched vectors yield ErrDegenerateComparison.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("%w: dimensions %d and %d", domain.ErrDegenerateComparison, len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("%w: zero-norm vector", domain.ErrDegenerateComparison)
	}

	c := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(c) {
		return 0, fmt.Errorf("%w: not a number", domain.ErrDegenerateComparison)
	}
	return math.Max(-1, math.Min(1, c)), nil
}
