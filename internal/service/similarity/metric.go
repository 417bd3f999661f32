// Package similarity provides pairwise word similarity metrics.
//
// Scores are only comparable within one metric: phonetic scores lie in (0,1],
// semantic scores in [-1,1].
package similarity

import (
	"context"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// Metric scores a pair of tokens. Implementations must be symmetric.
type Metric interface {
	Name() string
	Score(a, b domain.Token) float64
}

// Preparer is implemented by metrics that resolve per-token state before
// pairwise scoring. The returned map lists tokens that cannot be scored and why.
type Preparer interface {
	Prepare(ctx context.Context, tokens []domain.Token) (map[domain.Token]error, error)
}

// Factory builds a Metric for a single classification run.
type Factory func() Metric

// Shared returns a Factory that always hands out m. Only stateless metrics
// may be shared.
func Shared(m Metric) Factory {
	return func() Metric { return m }
}
