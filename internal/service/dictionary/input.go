package dictionary

import (
	"regexp"

	"github.com/heartmarshall/wordtier/internal/domain"
)

var poolIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// GenerateInput holds the parameters for generating a dictionary.
type GenerateInput struct {
	PoolID string
	// Tier is the requested tier key as received; keys that match no tier
	// produce an empty dictionary.
	Tier   string
	Metric domain.MetricKind
}

// Validate checks all fields and collects all errors.
func (i GenerateInput) Validate() error {
	errs := validatePoolAndMetric(i.PoolID, i.Metric)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ClassifyInput holds the parameters for classifying a whole pool.
type ClassifyInput struct {
	PoolID string
	Metric domain.MetricKind
}

// Validate checks all fields and collects all errors.
func (i ClassifyInput) Validate() error {
	errs := validatePoolAndMetric(i.PoolID, i.Metric)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validatePoolAndMetric(poolID string, metric domain.MetricKind) []domain.FieldError {
	var errs []domain.FieldError

	if poolID == "" {
		errs = append(errs, domain.FieldError{Field: "pool", Message: "required"})
	} else if !poolIDPattern.MatchString(poolID) {
		errs = append(errs, domain.FieldError{Field: "pool", Message: "must be 1-64 letters, digits, '-' or '_'"})
	}
	if metric != "" && !metric.IsValid() {
		errs = append(errs, domain.FieldError{Field: "metric", Message: "must be phonetic or semantic"})
	}

	return errs
}
