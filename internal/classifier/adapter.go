package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MaxInputChars bounds the text handed to the model. It approximates the
// model's token budget by character count.
const MaxInputChars = 512

// Adapter wraps a Predictor and contains its failures. Classify never returns
// an error and never panics.
type Adapter struct {
	source  Source
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdapter creates an Adapter. A zero timeout leaves inference bounded only
// by the caller's context.
func NewAdapter(source Source, timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		source:  source,
		timeout: timeout,
		logger:  logger.With("component", "classifier"),
	}
}

func (a *Adapter) Classify(ctx context.Context, text string) Outcome {
	p, ok := a.source.Predictor()
	if !ok {
		return Outcome{Reason: ReasonModelUnavailable}
	}
	if text == "" {
		return Outcome{Reason: ReasonEmptyInput}
	}

	dist, err := a.predict(ctx, p, Truncate(text, MaxInputChars))
	if err != nil {
		a.logger.ErrorContext(ctx, "inference failed", "error", err)
		return Outcome{Reason: ReasonInferenceFailure, Err: err}
	}

	return Outcome{Distribution: dist}
}

func (a *Adapter) predict(ctx context.Context, p Predictor, text string) (dist Distribution, err error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			dist, err = nil, fmt.Errorf("predictor panic: %v", r)
		}
	}()

	return p.Predict(ctx, text)
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
