// Package detector is the validated entry point for fake news classification.
// It checks input, runs the transformer classifier and shapes results for
// presentation.
package detector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fakenews/internal/classifier"
	"fakenews/internal/model"
)

const (
	LabelFake = "FAKE"
	LabelReal = "REAL"

	DefaultModelName = "distilbert-base-uncased"

	StatusUp      = "UP"
	modelFamily   = "HuggingFace Transformers"
	task          = "text-classification"
	previewLength = 100
	previewSuffix = "..."
)

// Analyzer produces a verdict for one text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) classifier.Analysis
}

// ModelStatus reports the load state of the model.
type ModelStatus interface {
	State() model.State
}

// Prediction is the summary result. Confidence is preformatted to four
// decimals while Detail.ConfidenceScore stays numeric; clients depend on both.
type Prediction struct {
	Prediction  string `json:"prediction"`
	Confidence  string `json:"confidence"`
	Message     string `json:"message"`
	TextPreview string `json:"text_preview"`
}

// Detail is the detailed result.
type Detail struct {
	IsFake          bool    `json:"is_fake"`
	ConfidenceScore float64 `json:"confidence_score"`
	Classification  string  `json:"classification"`
	Message         string  `json:"message"`
	Model           string  `json:"model"`
}

// Health describes the classification service. Status is always "UP";
// ModelState carries the actual model readiness.
type Health struct {
	Status     string `json:"status"`
	Model      string `json:"model"`
	ModelName  string `json:"model_name"`
	Task       string `json:"task"`
	ModelState string `json:"model_state"`
}

type Service struct {
	analyzer  Analyzer
	status    ModelStatus
	modelName string
	logger    *slog.Logger
}

func New(analyzer Analyzer, status ModelStatus, modelName string, logger *slog.Logger) *Service {
	if modelName == "" {
		modelName = DefaultModelName
	}
	return &Service{
		analyzer:  analyzer,
		status:    status,
		modelName: modelName,
		logger:    logger.With("component", "detector"),
	}
}

// Predict returns the summary result for text.
func (s *Service) Predict(ctx context.Context, text string) (*Prediction, error) {
	a, err := s.analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		Prediction:  label(a.IsFake),
		Confidence:  fmt.Sprintf("%.4f", a.Confidence),
		Message:     a.Message,
		TextPreview: Preview(text),
	}, nil
}

// Analyze returns the detailed result for text.
func (s *Service) Analyze(ctx context.Context, text string) (*Detail, error) {
	a, err := s.analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	return &Detail{
		IsFake:          a.IsFake,
		ConfidenceScore: a.Confidence,
		Classification:  label(a.IsFake),
		Message:         a.Message,
		Model:           s.modelName,
	}, nil
}

func (s *Service) Health() Health {
	state := model.StateUninitialized
	if s.status != nil {
		state = s.status.State()
	}

	return Health{
		Status:     StatusUp,
		Model:      modelFamily,
		ModelName:  s.modelName,
		Task:       task,
		ModelState: state.String(),
	}
}

func (s *Service) analyze(ctx context.Context, text string) (a classifier.Analysis, err error) {
	if strings.TrimSpace(text) == "" {
		return a, ErrInvalidInput
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "classification panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	return s.analyzer.Analyze(ctx, text), nil
}

// Preview returns the first 100 runes of text followed by "...". The suffix
// is appended even when nothing was cut.
func Preview(text string) string {
	return classifier.Truncate(text, previewLength) + previewSuffix
}

func label(fake bool) string {
	if fake {
		return LabelFake
	}
	return LabelReal
}
