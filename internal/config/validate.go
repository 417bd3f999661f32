package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Pool.Backend {
	case PoolBackendFile:
		if strings.Count(c.Pool.FilePattern, "%s") != 1 {
			return fmt.Errorf("pool.file_pattern must contain exactly one %%s (got %q)", c.Pool.FilePattern)
		}
	case PoolBackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when pool.backend is %q", PoolBackendPostgres)
		}
	default:
		return fmt.Errorf("pool.backend must be %q or %q (got %q)", PoolBackendFile, PoolBackendPostgres, c.Pool.Backend)
	}

	if err := c.Classifier.validate(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Phonetic.validate(); err != nil {
		return fmt.Errorf("phonetic: %w", err)
	}
	if err := c.Semantic.validate(); err != nil {
		return fmt.Errorf("semantic: %w", err)
	}
	if err := c.Embedding.validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	return nil
}

func (c *ClassifierConfig) validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be >= 1 (got %d)", c.Neighbors)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size must be >= 0 (got %d)", c.SampleSize)
	}
	if c.DefaultMetric != "phonetic" && c.DefaultMetric != "semantic" {
		return fmt.Errorf("default_metric must be phonetic or semantic (got %q)", c.DefaultMetric)
	}
	return nil
}

func (p *PhoneticConfig) validate() error {
	if p.Encoding != EncodingLetters && p.Encoding != EncodingMetaphone {
		return fmt.Errorf("encoding must be %q or %q (got %q)", EncodingLetters, EncodingMetaphone, p.Encoding)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("scale must be > 0 (got %v)", p.Scale)
	}

	thresholds, err := ParseThresholds(p.ThresholdsRaw)
	if err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if len(thresholds) == 0 {
		return fmt.Errorf("thresholds must not be empty")
	}
	p.Thresholds = thresholds

	return nil
}

func (s *SemanticConfig) validate() error {
	if s.Scale <= 0 {
		return fmt.Errorf("scale must be > 0 (got %v)", s.Scale)
	}
	if s.Medium >= s.Hard {
		return fmt.Errorf("medium must be below hard (got medium=%v hard=%v)", s.Medium, s.Hard)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", s.Concurrency)
	}
	if s.Attempts < 1 {
		return fmt.Errorf("attempts must be >= 1 (got %d)", s.Attempts)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	return nil
}

func (e *EmbeddingConfig) validate() error {
	switch e.Provider {
	case EmbeddingNgram:
		if e.Dimensions < 1 {
			return fmt.Errorf("dimensions must be >= 1 (got %d)", e.Dimensions)
		}
	case EmbeddingOpenAI:
		if e.APIKey == "" && e.BaseURL == "" {
			return fmt.Errorf("api_key or base_url is required for provider %q", EmbeddingOpenAI)
		}
		if e.Model == "" {
			return fmt.Errorf("model is required for provider %q", EmbeddingOpenAI)
		}
	default:
		return fmt.Errorf("provider must be %q or %q (got %q)", EmbeddingNgram, EmbeddingOpenAI, e.Provider)
	}
	if e.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0 (got %d)", e.CacheSize)
	}
	return nil
}

// ParseThresholds parses a comma-separated list of ascending numbers
// (e.g. "1,2,3"). An empty string returns a nil slice.
func ParseThresholds(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", p, err)
		}
		out = append(out, v)
	}

	if !slices.IsSorted(out) {
		return nil, fmt.Errorf("thresholds must be ascending (got %v)", out)
	}

	return out, nil
}
