package dictionary

import "github.com/heartmarshall/wordtier/internal/domain"

// GenerateResult is a sampled dictionary for one tier.
type GenerateResult struct {
	PoolID string
	Metric domain.MetricKind
	Tier   string
	Words  []domain.Token
	// Available is the size of the requested tier's bucket.
	Available int
	Excluded  int
}
