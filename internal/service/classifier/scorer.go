// Package classifier assigns difficulty tiers to pool words from the mean
// similarity of their nearest neighbors.
package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/heartmarshall/wordtier/internal/domain"
	"github.com/heartmarshall/wordtier/internal/service/similarity"
)

// DefaultNeighbors is the neighborhood size used when none is configured.
const DefaultNeighbors = 5

// Scorer classifies pools under any Metric it has a TierRule for.
type Scorer struct {
	log   *slog.Logger
	k     int
	rules map[domain.MetricKind]TierRule
}

// NewScorer creates a Scorer with neighborhood size k.
func NewScorer(logger *slog.Logger, k int, rules map[domain.MetricKind]TierRule) *Scorer {
	if k < 1 {
		k = DefaultNeighbors
	}
	return &Scorer{
		log:   logger.With("service", "classifier"),
		k:     k,
		rules: rules,
	}
}

type entry struct {
	index int
	word  domain.Token
}

// Score classifies every scorable word of pool. Each word's neighborhood is
// the min(k, n-1) other entries with the highest similarity, ties going to
// the earlier pool position. Pools with fewer than two scorable words yield
// an empty tier map.
func (s *Scorer) Score(ctx context.Context, pool domain.Pool, metric similarity.Metric) (*domain.Classification, error) {
	kind := domain.MetricKind(metric.Name())
	rule, ok := s.rules[kind]
	if !ok {
		return nil, fmt.Errorf("classifier: no tier rule for metric %q", kind)
	}

	var unscorable map[domain.Token]error
	if p, ok := metric.(similarity.Preparer); ok {
		var err error
		unscorable, err = p.Prepare(ctx, pool.Words)
		if err != nil {
			return nil, fmt.Errorf("classifier: prepare %s: %w", kind, err)
		}
	}

	result := &domain.Classification{
		PoolID: pool.ID,
		Metric: kind,
		Tiers:  domain.TierMap{},
	}

	entries := make([]entry, 0, len(pool.Words))
	for i, w := range pool.Words {
		if reason, bad := unscorable[w]; bad {
			result.Excluded = append(result.Excluded, domain.Excluded{Word: w, Reason: reason})
			continue
		}
		entries = append(entries, entry{index: i, word: w})
	}

	n := len(entries)
	if n < 2 {
		s.log.DebugContext(ctx, "pool too small to classify",
			slog.String("pool", pool.ID),
			slog.Int("scorable", n),
		)
		return result, nil
	}

	k := min(s.k, n-1)
	result.K = k

	hoods, err := neighborhoods(ctx, entries, metric, k)
	if err != nil {
		return nil, err
	}

	result.Assignments = make([]domain.Assignment, n)
	for i, e := range entries {
		var sum float64
		for _, nb := range hoods[i] {
			sum += nb.Score
		}
		magnitude := sum / float64(len(hoods[i]))
		tier := rule.Tier(magnitude)

		result.Assignments[i] = domain.Assignment{
			Index:     e.index,
			Word:      e.word,
			Neighbors: hoods[i],
			Magnitude: magnitude,
			Tier:      tier,
		}
		result.Tiers.Add(tier, e.word)
	}

	s.log.DebugContext(ctx, "pool classified",
		slog.String("pool", pool.ID),
		slog.String("metric", kind.String()),
		slog.Int("scored", n),
		slog.Int("excluded", len(result.Excluded)),
		slog.Int("k", k),
	)

	return result, nil
}

// neighborhoods scores each unordered pair once and offers the score to both
// rows. Candidates reach every row in ascending pool order, so insertion
// after equal scores keeps ties in pool order.
func neighborhoods(ctx context.Context, entries []entry, metric similarity.Metric, k int) ([][]domain.Neighbor, error) {
	hoods := make([]topK, len(entries))
	for i := range hoods {
		hoods[i] = topK{k: k, items: make([]domain.Neighbor, 0, k)}
	}

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("classifier: %w", err)
		}
		for j := i + 1; j < len(entries); j++ {
			score := metric.Score(entries[i].word, entries[j].word)
			if math.IsNaN(score) {
				score = -1
			}
			hoods[i].offer(domain.Neighbor{Index: entries[j].index, Word: entries[j].word, Score: score})
			hoods[j].offer(domain.Neighbor{Index: entries[i].index, Word: entries[i].word, Score: score})
		}
	}

	out := make([][]domain.Neighbor, len(hoods))
	for i := range hoods {
		out[i] = hoods[i].items
	}
	return out, nil
}

// topK keeps the k highest-scoring neighbors in descending order.
type topK struct {
	k     int
	items []domain.Neighbor
}

func (t *topK) offer(n domain.Neighbor) {
	pos := sort.Search(len(t.items), func(i int) bool { return t.items[i].Score < n.Score })
	if pos >= t.k {
		return
	}
	if len(t.items) < t.k {
		t.items = append(t.items, domain.Neighbor{})
	}
	copy(t.items[pos+1:], t.items[pos:])
	t.items[pos] = n
}
