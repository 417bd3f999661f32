package similarity

import (
	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// Encodings accepted by NewPhonetic.
const (
	EncodingLetters   = "letters"
	EncodingMetaphone = "metaphone"
)

// Phonetic scores tokens as 1 / (1 + edit distance). It is stateless and
// safe to share across runs.
type Phonetic struct {
	encode func(string) string
}

// NewPhonetic creates a Phonetic metric. EncodingMetaphone measures the
// distance between primary Double Metaphone codes instead of raw letters;
// any other value compares letters.
func NewPhonetic(encoding string) *Phonetic {
	p := &Phonetic{encode: func(s string) string { return s }}
	if encoding == EncodingMetaphone {
		p.encode = primaryMetaphone
	}
	return p
}

func (p *Phonetic) Name() string { return domain.MetricPhonetic.String() }

func (p *Phonetic) Score(a, b domain.Token) float64 {
	if a == b {
		return 1
	}
	d := levenshtein.ComputeDistance(p.encode(a.String()), p.encode(b.String()))
	return 1 / (1 + float64(d))
}

func primaryMetaphone(s string) string {
	primary, _ := matchr.DoubleMetaphone(s)
	if primary == "" {
		return s
	}
	return primary
}
