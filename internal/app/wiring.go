package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordtier/internal/adapter/poolfile"
	"github.com/heartmarshall/wordtier/internal/adapter/postgres"
	wordpoolrepo "github.com/heartmarshall/wordtier/internal/adapter/postgres/wordpool"
	"github.com/heartmarshall/wordtier/internal/adapter/provider/ngram"
	"github.com/heartmarshall/wordtier/internal/adapter/provider/openai"
	"github.com/heartmarshall/wordtier/internal/config"
	"github.com/heartmarshall/wordtier/internal/domain"
	"github.com/heartmarshall/wordtier/internal/service/classifier"
	"github.com/heartmarshall/wordtier/internal/service/dictionary"
	"github.com/heartmarshall/wordtier/internal/service/embedding"
	"github.com/heartmarshall/wordtier/internal/service/sampler"
	"github.com/heartmarshall/wordtier/internal/service/similarity"
	"github.com/heartmarshall/wordtier/internal/service/wordpool"
	"github.com/heartmarshall/wordtier/internal/transport/rest"
)

// Components is the assembled service graph shared by the server and CLIs.
type Components struct {
	Dictionary *dictionary.Service
	// Checks are the dependencies reported by /ready and /health.
	Checks map[string]rest.Pinger

	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build wires the pool source, metrics, scorer and sampler from cfg.
// Nothing talks to the embedding backend until the first semantic request.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{Checks: make(map[string]rest.Pinger)}

	source, err := buildPoolSource(ctx, cfg, c)
	if err != nil {
		c.Close()
		return nil, err
	}
	loader := wordpool.NewLoader(logger, source, cfg.Pool.Dedupe)

	embedder, err := buildEmbedder(logger, cfg.Embedding)
	if err != nil {
		c.Close()
		return nil, err
	}
	resolver := embedding.NewResolver(logger, embedder, embedding.ResolverConfig{
		Concurrency: cfg.Semantic.Concurrency,
		Attempts:    cfg.Semantic.Attempts,
		Timeout:     cfg.Semantic.Timeout,
	})

	metrics := map[domain.MetricKind]similarity.Factory{
		domain.MetricPhonetic: similarity.Shared(similarity.NewPhonetic(cfg.Phonetic.Encoding)),
		domain.MetricSemantic: similarity.SemanticFactory(resolver),
	}

	scorer := classifier.NewScorer(logger, cfg.Classifier.Neighbors, TierRules(cfg))
	smp := sampler.NewSeeded(cfg.Classifier.Seed)

	c.Dictionary = dictionary.NewService(logger, loader, scorer, smp, metrics, cfg.Classifier)

	logger.InfoContext(ctx, "components ready",
		slog.String("pool_backend", cfg.Pool.Backend),
		slog.String("embedding_provider", cfg.Embedding.Provider),
		slog.String("phonetic_encoding", cfg.Phonetic.Encoding),
		slog.Int("neighbors", cfg.Classifier.Neighbors),
	)

	return c, nil
}

// TierRules builds the per-metric tier rules from cfg.
func TierRules(cfg *config.Config) map[domain.MetricKind]classifier.TierRule {
	return map[domain.MetricKind]classifier.TierRule{
		domain.MetricPhonetic: classifier.PhoneticRule{
			Scale:      cfg.Phonetic.Scale,
			Offset:     cfg.Phonetic.Offset,
			Thresholds: cfg.Phonetic.Thresholds,
		},
		domain.MetricSemantic: classifier.SemanticRule{
			Scale:  cfg.Semantic.Scale,
			Hard:   cfg.Semantic.Hard,
			Medium: cfg.Semantic.Medium,
		},
	}
}

func buildPoolSource(ctx context.Context, cfg *config.Config, c *Components) (wordpool.Source, error) {
	switch cfg.Pool.Backend {
	case config.PoolBackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("pool source: %w", err)
		}
		c.closers = append(c.closers, pool.Close)

		repo := wordpoolrepo.New(pool)
		c.Checks["database"] = repo
		return repo, nil
	default:
		src := poolfile.NewSource(cfg.Pool.Dir, cfg.Pool.FilePattern)
		c.Checks["pools"] = src
		return src, nil
	}
}

// buildEmbedder returns the lazily initialized backend, behind an LRU when
// embedding.cache_size is positive.
func buildEmbedder(logger *slog.Logger, cfg config.EmbeddingConfig) (embedding.Embedder, error) {
	lazy := embedding.NewLazy(func(context.Context) (embedding.Embedder, error) {
		switch cfg.Provider {
		case config.EmbeddingOpenAI:
			logger.Info("initializing embedding backend", slog.String("provider", cfg.Provider), slog.String("model", cfg.Model))
			return openai.NewProvider(logger, openai.Config{
				APIKey:     cfg.APIKey,
				BaseURL:    cfg.BaseURL,
				Model:      cfg.Model,
				Dimensions: cfg.Dimensions,
			}), nil
		case config.EmbeddingNgram:
			logger.Info("initializing embedding backend", slog.String("provider", cfg.Provider), slog.Int("dimensions", cfg.Dimensions))
			return ngram.New(cfg.Dimensions), nil
		default:
			return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
		}
	})

	if cfg.CacheSize <= 0 {
		return lazy, nil
	}

	cached, err := embedding.NewCached(lazy, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
