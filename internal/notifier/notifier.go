package notifier

import (
	"context"

	"fakenews/internal/classifier"
	"fakenews/internal/domain"
)

// Notification reports an ingested article the model judged fake. Flagged
// is the keyword verdict, carried alongside and never merged with Analysis.
type Notification struct {
	Article  domain.Article
	Analysis classifier.Analysis
	Flagged  bool
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Noop discards notifications.
type Noop struct{}

func (Noop) Notify(context.Context, Notification) error { return nil }
