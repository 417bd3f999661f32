package classifier

import (
	"math"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// TierRule maps a neighborhood magnitude to a tier.
type TierRule interface {
	Tier(magnitude float64) domain.Tier
}

// PhoneticRule computes round(magnitude*Scale*100) - Offset and returns the
// first tier whose ascending threshold is not exceeded. Values above every
// threshold land in tier len(Thresholds)+1.
type PhoneticRule struct {
	Scale      float64
	Offset     float64
	Thresholds []float64
}

func (r PhoneticRule) Tier(magnitude float64) domain.Tier {
	v := math.Round(magnitude*r.Scale*100) - r.Offset
	for i, t := range r.Thresholds {
		if v <= t {
			return domain.Tier(i + 1)
		}
	}
	return domain.Tier(len(r.Thresholds) + 1)
}

// SemanticRule buckets magnitude*Scale into three tiers: above Hard is 3,
// above Medium is 2, anything else is 1.
type SemanticRule struct {
	Scale  float64
	Hard   float64
	Medium float64
}

func (r SemanticRule) Tier(magnitude float64) domain.Tier {
	v := magnitude * r.Scale
	switch {
	case v > r.Hard:
		return 3
	case v > r.Medium:
		return 2
	default:
		return 1
	}
}
