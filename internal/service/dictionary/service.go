package dictionary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordtier/internal/config"
	"github.com/heartmarshall/wordtier/internal/domain"
	"github.com/heartmarshall/wordtier/internal/service/similarity"
	"github.com/heartmarshall/wordtier/internal/service/wordpool"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type poolLoader interface {
	LoadSource(ctx context.Context, id string) (domain.Pool, wordpool.Stats, error)
}

type scorer interface {
	Score(ctx context.Context, pool domain.Pool, metric similarity.Metric) (*domain.Classification, error)
}

type tierSampler interface {
	Sample(tiers domain.TierMap, tier domain.Tier, count int) []domain.Token
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service turns word pools into difficulty-tiered dictionaries. It keeps no
// state between calls; every request reloads and rescores its pool.
type Service struct {
	log     *slog.Logger
	pools   poolLoader
	scorer  scorer
	sampler tierSampler
	metrics map[domain.MetricKind]similarity.Factory
	cfg     config.ClassifierConfig
}

// NewService creates a dictionary Service.
func NewService(
	logger *slog.Logger,
	pools poolLoader,
	scorer scorer,
	sampler tierSampler,
	metrics map[domain.MetricKind]similarity.Factory,
	cfg config.ClassifierConfig,
) *Service {
	return &Service{
		log:     logger.With("service", "dictionary"),
		pools:   pools,
		scorer:  scorer,
		sampler: sampler,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Metrics returns the metric kinds this service can classify with.
func (s *Service) Metrics() []domain.MetricKind {
	out := make([]domain.MetricKind, 0, len(s.metrics))
	for _, k := range []domain.MetricKind{domain.MetricPhonetic, domain.MetricSemantic} {
		if _, ok := s.metrics[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (s *Service) metricOrDefault(kind domain.MetricKind) domain.MetricKind {
	if kind == "" {
		return domain.MetricKind(s.cfg.DefaultMetric)
	}
	return kind
}
