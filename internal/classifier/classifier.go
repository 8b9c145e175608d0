package classifier

import (
	"context"
	"strings"
)

// ClassProbability pairs a model label with its probability.
type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"score"`
}

// Distribution is the ordered output of a single inference call.
type Distribution []ClassProbability

// Lookup returns the probability of the first entry whose label equals one
// of labels, ignoring case.
func (d Distribution) Lookup(labels ...string) (float64, bool) {
	for _, cp := range d {
		for _, l := range labels {
			if strings.EqualFold(cp.Label, l) {
				return cp.Probability, true
			}
		}
	}
	return 0, false
}

// Predictor runs a pretrained text-classification model.
type Predictor interface {
	Predict(ctx context.Context, text string) (Distribution, error)
}

// Source hands out the predictor once the model is loaded. ok is false while
// the model is absent or failed to load.
type Source interface {
	Predictor() (p Predictor, ok bool)
}

// Reason tells why an Outcome carries no usable distribution.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmptyInput
	ReasonModelUnavailable
	ReasonInferenceFailure
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEmptyInput:
		return "empty_input"
	case ReasonModelUnavailable:
		return "model_unavailable"
	case ReasonInferenceFailure:
		return "inference_failure"
	}
	return "unknown"
}

// Outcome is either a distribution (Reason == ReasonNone) or a failure reason.
// Err is set only for ReasonInferenceFailure.
type Outcome struct {
	Distribution Distribution
	Reason       Reason
	Err          error
}

func (o Outcome) OK() bool {
	return o.Reason == ReasonNone
}
