package relevance

import (
	"errors"
	"fmt"
)

// ErrInvalidWeights is returned by Weights.Validate.
var ErrInvalidWeights = errors.New("invalid relevance weights")

// Weights holds every tunable constant used by scoring and selection.
//
// The defaults were tuned by hand against Congress.gov and Federal Register
// responses. Treat changes as a calibration exercise.
type Weights struct {
	// ExactPhrase is added when the whole query appears verbatim in a text.
	ExactPhrase float64 `yaml:"exact_phrase"`
	// Coverage is added when every query token appears in a text.
	Coverage float64 `yaml:"coverage"`
	// OccurrenceCap bounds how many occurrences of one token count.
	OccurrenceCap int `yaml:"occurrence_cap"`
	// MinTokenLength is the shortest query token that is kept.
	MinTokenLength int `yaml:"min_token_length"`

	BillTitle        float64 `yaml:"bill_title"`
	BillShortTitle   float64 `yaml:"bill_short_title"`
	BillSummary      float64 `yaml:"bill_summary"`
	BillLatestAction float64 `yaml:"bill_latest_action"`
	// BillSubject is a flat bonus per subject tag matching any query token.
	BillSubject float64 `yaml:"bill_subject"`

	DocumentTitle    float64 `yaml:"document_title"`
	DocumentAbstract float64 `yaml:"document_abstract"`
	// DocumentAgency is a flat bonus per issuing agency matching any token.
	DocumentAgency float64 `yaml:"document_agency"`

	// Threshold is the minimum score of a high-relevance result.
	Threshold float64 `yaml:"threshold"`
}

// DefaultWeights returns the tuned defaults.
func DefaultWeights() Weights {
	return Weights{
		ExactPhrase:      10,
		Coverage:         5,
		OccurrenceCap:    3,
		MinTokenLength:   3,
		BillTitle:        4,
		BillShortTitle:   4,
		BillSummary:      2,
		BillLatestAction: 1.5,
		BillSubject:      20,
		DocumentTitle:    3,
		DocumentAbstract: 2,
		DocumentAgency:   10,
		Threshold:        5,
	}
}

// Validate reports whether the weights are usable.
func (w Weights) Validate() error {
	if w.OccurrenceCap < 1 {
		return fmt.Errorf("%w: occurrence_cap must be >= 1, got %d", ErrInvalidWeights, w.OccurrenceCap)
	}
	if w.MinTokenLength < 1 {
		return fmt.Errorf("%w: min_token_length must be >= 1, got %d", ErrInvalidWeights, w.MinTokenLength)
	}
	named := []struct {
		name  string
		value float64
	}{
		{"exact_phrase", w.ExactPhrase},
		{"coverage", w.Coverage},
		{"bill_title", w.BillTitle},
		{"bill_short_title", w.BillShortTitle},
		{"bill_summary", w.BillSummary},
		{"bill_latest_action", w.BillLatestAction},
		{"bill_subject", w.BillSubject},
		{"document_title", w.DocumentTitle},
		{"document_abstract", w.DocumentAbstract},
		{"document_agency", w.DocumentAgency},
		{"threshold", w.Threshold},
	}
	for _, n := range named {
		if n.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidWeights, n.name, n.value)
		}
	}
	return nil
}
