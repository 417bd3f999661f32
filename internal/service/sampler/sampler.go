// Package sampler draws random words from a classified tier.
package sampler

import (
	"math/rand"
	"sync"
	"time"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// Sampler draws without replacement from tier buckets. It is safe for
// concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Sampler around rng.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// NewSeeded creates a Sampler with a deterministic source. A zero seed uses
// the current time.
func NewSeeded(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(rand.New(rand.NewSource(seed)))
}

// Sample returns min(count, distinct words in the bucket) distinct words of
// the tier in random order. Repeated bucket entries count once. Absent or
// empty tiers and non-positive counts yield an empty, non-nil slice.
func (s *Sampler) Sample(tiers domain.TierMap, tier domain.Tier, count int) []domain.Token {
	distinct := dedupe(tiers.Words(tier))
	n := min(count, len(distinct))
	if n <= 0 {
		return []domain.Token{}
	}

	s.mu.Lock()
	for i := range n {
		j := i + s.rng.Intn(len(distinct)-i)
		distinct[i], distinct[j] = distinct[j], distinct[i]
	}
	s.mu.Unlock()

	return distinct[:n:n]
}

// dedupe copies bucket keeping the first occurrence of each word.
func dedupe(bucket []domain.Token) []domain.Token {
	out := make([]domain.Token, 0, len(bucket))
	seen := make(map[domain.Token]struct{}, len(bucket))
	for _, w := range bucket {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
