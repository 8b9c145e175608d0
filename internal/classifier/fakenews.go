package classifier

import (
	"context"
	"fmt"
	"math"
)

const (
	// Threshold separates fake from real. A score equal to it is real.
	Threshold = 0.5

	neutralScore = 0.5
)

// fakeLabels are the label names different models use for the fake class.
var fakeLabels = []string{"fake", "negative"}

// Analysis is the classifier verdict for one text.
type Analysis struct {
	IsFake     bool
	Confidence float64
	Message    string
}

// FakeNews turns adapter outcomes into a fake probability, a label and a
// human readable message.
type FakeNews struct {
	adapter *Adapter
}

func NewFakeNews(adapter *Adapter) *FakeNews {
	return &FakeNews{adapter: adapter}
}

func (f *FakeNews) Analyze(ctx context.Context, text string) Analysis {
	score := Score(f.adapter.Classify(ctx, text))

	return Analysis{
		IsFake:     score > Threshold,
		Confidence: score,
		Message:    fmt.Sprintf("Fake news confidence: %.2f%%", score*100),
	}
}

// Score extracts the fake probability from an outcome. A missing model or
// empty input scores 0, a failed inference scores the neutral 0.5.
func Score(o Outcome) float64 {
	switch o.Reason {
	case ReasonNone:
		p, _ := o.Distribution.Lookup(fakeLabels...)
		return clamp(p)
	case ReasonInferenceFailure:
		return neutralScore
	default:
		return 0
	}
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
