package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// ResolverConfig bounds how embeddings are fetched during one run.
type ResolverConfig struct {
	Concurrency int
	Attempts    int
	Timeout     time.Duration
}

// Resolver fetches one vector per distinct token, in parallel.
type Resolver struct {
	log      *slog.Logger
	embedder Embedder
	cfg      ResolverConfig
}

// NewResolver creates a Resolver. Non-positive limits fall back to a single
// worker and a single attempt.
func NewResolver(logger *slog.Logger, embedder Embedder, cfg ResolverConfig) *Resolver {
	cfg.Concurrency = max(cfg.Concurrency, 1)
	cfg.Attempts = max(cfg.Attempts, 1)
	return &Resolver{
		log:      logger.With("service", "embedding"),
		embedder: embedder,
		cfg:      cfg,
	}
}

// Resolve returns a vector for every distinct token it could embed, and the
// reason for every token it could not. Tokens are attempted independently;
// the returned error is non-nil only when ctx itself is done.
func (r *Resolver) Resolve(ctx context.Context, tokens []domain.Token) (map[domain.Token][]float32, map[domain.Token]error, error) {
	distinct := make([]domain.Token, 0, len(tokens))
	seen := make(map[domain.Token]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		distinct = append(distinct, tok)
	}

	vectors := make([][]float32, len(distinct))
	failures := make([]error, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for i, tok := range distinct {
		g.Go(func() error {
			vec, err := r.embedWithRetry(gctx, tok)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("embedding: resolve: %w", err)
	}

	resolved := make(map[domain.Token][]float32, len(distinct))
	excluded := make(map[domain.Token]error)
	for i, tok := range distinct {
		if failures[i] != nil {
			excluded[tok] = failures[i]
			r.log.WarnContext(ctx, "token excluded",
				slog.String("token", tok.String()),
				slog.String("error", failures[i].Error()),
			)
			continue
		}
		resolved[tok] = vectors[i]
	}

	r.log.DebugContext(ctx, "embeddings resolved",
		slog.Int("distinct", len(distinct)),
		slog.Int("resolved", len(resolved)),
		slog.Int("excluded", len(excluded)),
	)

	return resolved, excluded, nil
}

func (r *Resolver) embedWithRetry(ctx context.Context, tok domain.Token) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := r.embedOnce(ctx, tok)
		if err == nil {
			return vec, nil
		}
		lastErr = err

		r.log.DebugContext(ctx, "embedding attempt failed",
			slog.String("token", tok.String()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
	}
	return nil, fmt.Errorf("%w: %q after %d attempts: %w", domain.ErrEmbeddingUnavailable, tok, r.cfg.Attempts, lastErr)
}

type embedResult struct {
	vec []float32
	err error
}

// embedOnce bounds a single call by the configured timeout, even when the
// backend ignores ctx.
func (r *Resolver) embedOnce(ctx context.Context, tok domain.Token) ([]float32, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	done := make(chan embedResult, 1)
	go func() {
		vec, err := r.embedder.Embed(ctx, tok.String())
		done <- embedResult{vec: vec, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && len(res.vec) == 0 {
			return nil, errors.New("empty vector")
		}
		return res.vec, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
