package domain

// MetricKind identifies a similarity metric variant.
type MetricKind string

const (
	MetricPhonetic MetricKind = "phonetic"
	MetricSemantic MetricKind = "semantic"
)

func (m MetricKind) String() string { return string(m) }

func (m MetricKind) IsValid() bool {
	switch m {
	case MetricPhonetic, MetricSemantic:
		return true
	}
	return false
}
