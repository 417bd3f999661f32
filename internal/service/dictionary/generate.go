package dictionary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// GenerateDictionary loads a pool, classifies it and samples up to the
// configured number of words from the requested tier. Unknown tiers yield an
// empty word list; only unreadable pools and invalid input fail.
func (s *Service) GenerateDictionary(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
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
		return nil, fmt.Errorf("generate dictionary: %w", err)
	}

	result := &GenerateResult{
		PoolID: input.PoolID,
		Metric: kind,
		Tier:   input.Tier,
		Words:  []domain.Token{},
	}

	tier, ok := domain.ParseTier(input.Tier)
	if !ok {
		s.log.DebugContext(ctx, "tier key matches no tier",
			slog.String("pool", input.PoolID),
			slog.String("tier", input.Tier),
		)
		return result, nil
	}

	cls, err := s.scorer.Score(ctx, pool, factory())
	if err != nil {
		return nil, fmt.Errorf("generate dictionary: %w", err)
	}

	result.Words = s.sampler.Sample(cls.Tiers, tier, s.cfg.SampleSize)
	result.Available = len(cls.Tiers.Words(tier))
	result.Excluded = len(cls.Excluded)

	s.log.InfoContext(ctx, "dictionary generated",
		slog.String("pool", input.PoolID),
		slog.String("metric", kind.String()),
		slog.Int("tier", int(tier)),
		slog.Int("words", len(result.Words)),
		slog.Int("available", result.Available),
		slog.Int("excluded", result.Excluded),
	)

	return result, nil
}
