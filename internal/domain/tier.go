package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Tier is a discrete difficulty bucket. Phonetic classification yields 1..4,
// semantic classification yields 1..3.
type Tier int

func (t Tier) String() string { return strconv.Itoa(int(t)) }

// ParseTier matches an opaque tier key against tier identifiers.
// Keys that are not positive integers never match any tier.
func ParseTier(key string) (Tier, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || n < 1 {
		return 0, false
	}
	return Tier(n), true
}

// TierMap maps a tier to the words assigned to it, in pool order.
type TierMap map[Tier][]Token

// Add appends a word to the bucket for tier.
func (m TierMap) Add(tier Tier, word Token) {
	m[tier] = append(m[tier], word)
}

// Words returns the bucket for tier. Missing tiers yield nil.
func (m TierMap) Words(tier Tier) []Token {
	return m[tier]
}

// Tiers returns the populated tiers in ascending order.
func (m TierMap) Tiers() []Tier {
	tiers := make([]Tier, 0, len(m))
	for t, words := range m {
		if len(words) > 0 {
			tiers = append(tiers, t)
		}
	}
	slices.Sort(tiers)
	return tiers
}

// Len returns the total number of words across all tiers.
func (m TierMap) Len() int {
	n := 0
	for _, words := range m {
		n += len(words)
	}
	return n
}

// Neighbor is one member of a word's neighborhood.
type Neighbor struct {
	Index int
	Word  Token
	Score float64
}

// Assignment records how a single pool entry was classified.
type Assignment struct {
	Index     int
	Word      Token
	Neighbors []Neighbor
	Magnitude float64
	Tier      Tier
}

// Excluded records a pool word that was left out of classification.
type Excluded struct {
	Word   Token
	Reason error
}

// Classification is the full result of scoring a pool under one metric.
type Classification struct {
	PoolID      string
	Metric      MetricKind
	K           int
	Tiers       TierMap
	Assignments []Assignment
	Excluded    []Excluded
}
