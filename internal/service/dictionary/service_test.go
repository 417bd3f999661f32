package dictionary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordtier/internal/config"
	"github.com/heartmarshall/wordtier/internal/domain"
	"github.com/heartmarshall/wordtier/internal/service/classifier"
	"github.com/heartmarshall/wordtier/internal/service/embedding"
	"github.com/heartmarshall/wordtier/internal/service/sampler"
	"github.com/heartmarshall/wordtier/internal/service/similarity"
	"github.com/heartmarshall/wordtier/internal/service/wordpool"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockPoolLoader struct {
	LoadSourceFunc func(ctx context.Context, id string) (domain.Pool, wordpool.Stats, error)
	calls          int
}

func (m *mockPoolLoader) LoadSource(ctx context.Context, id string) (domain.Pool, wordpool.Stats, error) {
	m.calls++
	if m.LoadSourceFunc != nil {
		return m.LoadSourceFunc(ctx, id)
	}
	return domain.Pool{ID: id, Words: []domain.Token{"cat", "bat"}}, wordpool.Stats{Lines: 2}, nil
}

type mockScorer struct {
	ScoreFunc func(ctx context.Context, pool domain.Pool, metric similarity.Metric) (*domain.Classification, error)
	calls     int
}

func (m *mockScorer) Score(ctx context.Context, pool domain.Pool, metric similarity.Metric) (*domain.Classification, error) {
	m.calls++
	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, pool, metric)
	}
	return &domain.Classification{PoolID: pool.ID, Tiers: domain.TierMap{1: pool.Words}}, nil
}

type mockSampler struct {
	SampleFunc func(tiers domain.TierMap, tier domain.Tier, count int) []domain.Token
}

func (m *mockSampler) Sample(tiers domain.TierMap, tier domain.Tier, count int) []domain.Token {
	if m.SampleFunc != nil {
		return m.SampleFunc(tiers, tier, count)
	}
	words := tiers.Words(tier)
	return words[:min(count, len(words))]
}

type mockSource struct {
	pools map[string]string
}

func (m *mockSource) Open(_ context.Context, id string) (io.ReadCloser, error) {
	body, ok := m.pools[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// ===========================================================================
// Helpers
// ===========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCfg() config.ClassifierConfig {
	return config.ClassifierConfig{Neighbors: 5, SampleSize: 5, DefaultMetric: "phonetic"}
}

func phoneticOnly() map[domain.MetricKind]similarity.Factory {
	return map[domain.MetricKind]similarity.Factory{
		domain.MetricPhonetic: similarity.Shared(similarity.NewPhonetic(similarity.EncodingLetters)),
	}
}

func newTestService(loader *mockPoolLoader, sc *mockScorer) *Service {
	return NewService(testLogger(), loader, sc, &mockSampler{}, phoneticOnly(), testCfg())
}

// ===========================================================================
// GenerateDictionary
// ===========================================================================

func TestGenerateDictionary_Success(t *testing.T) {
	t.Parallel()

	loader := &mockPoolLoader{}
	sc := &mockScorer{}
	var gotMetric string
	sc.ScoreFunc = func(_ context.Context, pool domain.Pool, metric similarity.Metric) (*domain.Classification, error) {
		gotMetric = metric.Name()
		return &domain.Classification{
			Tiers:    domain.TierMap{2: {"cat", "bat", "hat"}},
			Excluded: []domain.Excluded{{Word: "fog"}},
		}, nil
	}

	svc := newTestService(loader, sc)
	res, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "2"})
	require.NoError(t, err)

	assert.Equal(t, "phonetic", gotMetric, "default metric")
	assert.Equal(t, domain.MetricPhonetic, res.Metric)
	assert.Equal(t, []domain.Token{"cat", "bat", "hat"}, res.Words)
	assert.Equal(t, 3, res.Available)
	assert.Equal(t, 1, res.Excluded)
}

func TestGenerateDictionary_PassesSampleSize(t *testing.T) {
	t.Parallel()

	var gotCount int
	var gotTier domain.Tier
	smp := &mockSampler{SampleFunc: func(_ domain.TierMap, tier domain.Tier, count int) []domain.Token {
		gotTier, gotCount = tier, count
		return []domain.Token{}
	}}
	cfg := testCfg()
	cfg.SampleSize = 3

	svc := NewService(testLogger(), &mockPoolLoader{}, &mockScorer{}, smp, phoneticOnly(), cfg)
	_, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "4"})
	require.NoError(t, err)

	assert.Equal(t, 3, gotCount)
	assert.Equal(t, domain.Tier(4), gotTier)
}

func TestGenerateDictionary_UnmatchedTierKeyIsEmpty(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"hard", "", "0", "-2", "2.5"} {
		loader := &mockPoolLoader{}
		sc := &mockScorer{}
		svc := newTestService(loader, sc)

		res, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: key})
		require.NoError(t, err, "key %q", key)
		assert.NotNil(t, res.Words)
		assert.Empty(t, res.Words)
		assert.Equal(t, 1, loader.calls, "pool is still loaded for key %q", key)
		assert.Equal(t, 0, sc.calls, "no scoring for key %q", key)
	}
}

func TestGenerateDictionary_AbsentTierIsEmpty(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPoolLoader{}, &mockScorer{})
	res, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "3"})
	require.NoError(t, err)
	assert.Empty(t, res.Words)
	assert.Equal(t, 0, res.Available)
}

func TestGenerateDictionary_PoolUnreadable(t *testing.T) {
	t.Parallel()

	loader := &mockPoolLoader{LoadSourceFunc: func(_ context.Context, id string) (domain.Pool, wordpool.Stats, error) {
		return domain.Pool{}, wordpool.Stats{}, errors.Join(domain.ErrPoolUnreadable, domain.ErrNotFound)
	}}
	sc := &mockScorer{}

	res, err := newTestService(loader, sc).GenerateDictionary(context.Background(), GenerateInput{PoolID: "ghost", Tier: "1"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrPoolUnreadable)
	assert.Equal(t, 0, sc.calls)
}

func TestGenerateDictionary_ScoreError(t *testing.T) {
	t.Parallel()

	sc := &mockScorer{ScoreFunc: func(context.Context, domain.Pool, similarity.Metric) (*domain.Classification, error) {
		return nil, context.Canceled
	}}

	_, err := newTestService(&mockPoolLoader{}, sc).GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateDictionary_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  GenerateInput
		fields []string
	}{
		{"missing pool", GenerateInput{Tier: "1"}, []string{"pool"}},
		{"path traversal", GenerateInput{PoolID: "../etc/passwd", Tier: "1"}, []string{"pool"}},
		{"pool too long", GenerateInput{PoolID: strings.Repeat("a", 65), Tier: "1"}, []string{"pool"}},
		{"unknown metric", GenerateInput{PoolID: "kids", Tier: "1", Metric: "cosine"}, []string{"metric"}},
		{"both", GenerateInput{PoolID: "a b", Metric: "x"}, []string{"pool", "metric"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := &mockPoolLoader{}
			_, err := newTestService(loader, &mockScorer{}).GenerateDictionary(context.Background(), tt.input)
			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Equal(t, 0, loader.calls)
		})
	}
}

func TestGenerateDictionary_MetricNotEnabled(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPoolLoader{}, &mockScorer{})
	_, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "1", Metric: domain.MetricSemantic})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []domain.MetricKind{domain.MetricPhonetic}, svc.Metrics())
}

// ===========================================================================
// Classify
// ===========================================================================

func TestClassify_ReturnsFullClassification(t *testing.T) {
	t.Parallel()

	sc := &mockScorer{}
	svc := newTestService(&mockPoolLoader{}, sc)

	cls, err := svc.Classify(context.Background(), ClassifyInput{PoolID: "kids"})
	require.NoError(t, err)
	assert.Equal(t, "kids", cls.PoolID)
	assert.Equal(t, []domain.Token{"cat", "bat"}, cls.Tiers.Words(1))
	assert.Equal(t, 1, sc.calls)
}

func TestClassify_Errors(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockPoolLoader{}, &mockScorer{})
	_, err := svc.Classify(context.Background(), ClassifyInput{PoolID: "bad/id"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	loader := &mockPoolLoader{LoadSourceFunc: func(context.Context, string) (domain.Pool, wordpool.Stats, error) {
		return domain.Pool{}, wordpool.Stats{}, domain.ErrPoolUnreadable
	}}
	_, err = newTestService(loader, &mockScorer{}).Classify(context.Background(), ClassifyInput{PoolID: "kids"})
	assert.ErrorIs(t, err, domain.ErrPoolUnreadable)
}

// ===========================================================================
// Full pipeline
// ===========================================================================

func newPipeline(t *testing.T, pools map[string]string, emb embedding.Embedder) *Service {
	t.Helper()

	logger := testLogger()
	loader := wordpool.NewLoader(logger, &mockSource{pools: pools}, false)
	scorer := classifier.NewScorer(logger, 5, map[domain.MetricKind]classifier.TierRule{
		domain.MetricPhonetic: classifier.PhoneticRule{Scale: 0.1, Offset: 0, Thresholds: []float64{1, 2, 3}},
		domain.MetricSemantic: classifier.SemanticRule{Scale: 1, Hard: 0.7, Medium: 0.5},
	})
	resolver := embedding.NewResolver(logger, emb, embedding.ResolverConfig{
		Concurrency: 4, Attempts: 3, Timeout: 20 * time.Millisecond,
	})
	metrics := map[domain.MetricKind]similarity.Factory{
		domain.MetricPhonetic: similarity.Shared(similarity.NewPhonetic(similarity.EncodingLetters)),
		domain.MetricSemantic: similarity.SemanticFactory(resolver),
	}
	return NewService(logger, loader, scorer, sampler.NewSeeded(1), metrics, testCfg())
}

func TestPipeline_PhoneticScenario(t *testing.T) {
	t.Parallel()

	svc := newPipeline(t, map[string]string{"kids": "cat\nbat\nhat\ndog\nfog\n"}, nil)

	res, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "4"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Token{"cat", "bat", "hat"}, res.Words)

	res, err = svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "3"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Token{"dog", "fog"}, res.Words)

	res, err = svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "1"})
	require.NoError(t, err)
	assert.Empty(t, res.Words)
}

func TestPipeline_MissingPool(t *testing.T) {
	t.Parallel()

	svc := newPipeline(t, map[string]string{}, nil)

	res, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "teens", Tier: "1"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrPoolUnreadable)
}

func TestPipeline_SameAssignmentsAcrossCalls(t *testing.T) {
	t.Parallel()

	svc := newPipeline(t, map[string]string{"kids": "river\nrover\nraven\nseven\neleven\nheaven\n"}, nil)

	a, err := svc.Classify(context.Background(), ClassifyInput{PoolID: "kids"})
	require.NoError(t, err)
	b, err := svc.Classify(context.Background(), ClassifyInput{PoolID: "kids"})
	require.NoError(t, err)
	assert.Equal(t, a.Tiers, b.Tiers)
}

func TestPipeline_SemanticTimeoutExcludesToken(t *testing.T) {
	t.Parallel()

	vectors := map[string][]float32{
		"cat": {1, 0.1}, "kitten": {1, 0.2}, "dog": {0.9, 0.4}, "car": {0, 1},
	}
	emb := embedding.Func(func(ctx context.Context, text string) ([]float32, error) {
		if text == "slow" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return vectors[text], nil
	})
	svc := newPipeline(t, map[string]string{"kids": "cat\nkitten\nslow\ndog\ncar\n"}, emb)

	cls, err := svc.Classify(context.Background(), ClassifyInput{PoolID: "kids", Metric: domain.MetricSemantic})
	require.NoError(t, err)

	require.Len(t, cls.Excluded, 1)
	assert.Equal(t, domain.Token("slow"), cls.Excluded[0].Word)
	assert.ErrorIs(t, cls.Excluded[0].Reason, domain.ErrEmbeddingUnavailable)

	assert.Equal(t, 4, cls.Tiers.Len())
	for _, tier := range cls.Tiers.Tiers() {
		assert.NotContains(t, cls.Tiers.Words(tier), domain.Token("slow"))
	}

	res, err := svc.GenerateDictionary(context.Background(), GenerateInput{PoolID: "kids", Tier: "3", Metric: domain.MetricSemantic})
	require.NoError(t, err)
	assert.NotContains(t, res.Words, domain.Token("slow"))
}
