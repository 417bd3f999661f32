package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/wordtier/internal/domain"
)

func TestPhoneticRule_Tier(t *testing.T) {
	t.Parallel()

	// Scale 0.01 makes the rounded value equal to the magnitude.
	rule := PhoneticRule{Scale: 0.01, Offset: 0, Thresholds: []float64{1, 2, 3}}

	tests := []struct {
		magnitude float64
		want      domain.Tier
	}{
		{0.0, 1},
		{1.0, 1}, // round(1) = 1
		{1.4, 1}, // round(1.4) = 1
		{1.6, 2}, // round(1.6) = 2
		{3.0, 3},
		{3.125, 3},
		{3.75, 4}, // round(3.75) = 4
		{10, 4},
	}
	for _, tt := range tests {
		got := rule.Tier(tt.magnitude)
		assert.Equal(t, tt.want, got, "magnitude %v", tt.magnitude)
	}
}

func TestPhoneticRule_OffsetAndExtraThresholds(t *testing.T) {
	t.Parallel()

	rule := PhoneticRule{Scale: 3, Offset: 23, Thresholds: []float64{1, 2, 3}}
	// round(0.08*300)-23 = 1
	assert.Equal(t, domain.Tier(1), rule.Tier(0.08))
	// round(0.0833*300)-23 = 2
	assert.Equal(t, domain.Tier(2), rule.Tier(0.0833))
	assert.Equal(t, domain.Tier(4), rule.Tier(0.5))

	wide := PhoneticRule{Scale: 1, Thresholds: []float64{10, 20, 30, 40}}
	assert.Equal(t, domain.Tier(5), wide.Tier(0.9))
}

func TestSemanticRule_Tier(t *testing.T) {
	t.Parallel()

	rule := SemanticRule{Scale: 1, Hard: 0.7, Medium: 0.5}

	tests := []struct {
		magnitude float64
		want      domain.Tier
	}{
		{-1, 1},
		{0.5, 1},
		{0.51, 2},
		{0.7, 2},
		{0.71, 3},
		{1, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rule.Tier(tt.magnitude), "magnitude %v", tt.magnitude)
	}

	scaled := SemanticRule{Scale: 2, Hard: 0.7, Medium: 0.5}
	assert.Equal(t, domain.Tier(3), scaled.Tier(0.4))
}
