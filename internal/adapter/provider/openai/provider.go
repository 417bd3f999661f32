// Package openai fetches token embeddings from an OpenAI-compatible
// embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// Config configures the embeddings client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// Provider embeds text through the embeddings endpoint.
type Provider struct {
	client     *goopenai.Client
	model      goopenai.EmbeddingModel
	dimensions int
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty BaseURL uses the public OpenAI API.
// Per-call deadlines come from the caller's context.
func NewProvider(logger *slog.Logger, cfg Config) *Provider {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}

	return &Provider{
		client:     goopenai.NewClientWithConfig(clientCfg),
		model:      goopenai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		log:        logger.With("adapter", "openai"),
	}
}

// Embed returns the embedding vector for text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.log.DebugContext(ctx, "embedding request", slog.String("text", text), slog.String("model", string(p.model)))

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input:      []string{text},
		Model:      p.model,
		Dimensions: p.dimensions,
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("openai: embeddings status %d: %w", apiErr.HTTPStatusCode, err)
		}
		return nil, fmt.Errorf("openai: embeddings: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai: empty embedding for %q", text)
	}

	return resp.Data[0].Embedding, nil
}
