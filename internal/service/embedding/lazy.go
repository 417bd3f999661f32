package embedding

import (
	"context"
	"fmt"
	"sync"
)

// Lazy defers construction of the underlying Embedder until the first call.
// Initialization runs at most once concurrently; a failed init is retried
// on the next call.
type Lazy struct {
	mu   sync.Mutex
	init func(ctx context.Context) (Embedder, error)
	emb  Embedder
}

// NewLazy creates a Lazy embedder around init.
func NewLazy(init func(ctx context.Context) (Embedder, error)) *Lazy {
	return &Lazy{init: init}
}

func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	emb, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return emb.Embed(ctx, text)
}

// Ready reports whether the backend has been initialized.
func (l *Lazy) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.emb != nil
}

func (l *Lazy) get(ctx context.Context) (Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.emb != nil {
		return l.emb, nil
	}

	emb, err := l.init(ctx)
	if err != nil {
		return nil, fmt.Errorf("embedding: init backend: %w", err)
	}
	l.emb = emb
	return emb, nil
}
