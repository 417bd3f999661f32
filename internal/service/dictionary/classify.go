package dictionary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// Classify loads a pool and returns its full classification.
func (s *Service) Classify(ctx context.Context, input ClassifyInput) (*domain.Classification, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	kind := s.metricOrDefault(input.Metric)
	factory, ok := s.metrics[kind]
	if !ok {
		return nil, domain.NewValidationError("metric", fmt.Sprintf("%s is not enabled", kind))
	}

	pool, _, err := s.pools.LoadSource(ctx, input.PoolID)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	cls, err := s.scorer.Score(ctx, pool, factory())
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	return cls, nil
}
