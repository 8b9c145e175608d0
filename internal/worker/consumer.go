package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"fakenews/internal/classifier"
	"fakenews/internal/domain"
	"fakenews/internal/news"
	"fakenews/internal/notifier"
	"fakenews/internal/queue"
)

type Broadcaster interface {
	Broadcast(msg string)
}

// Ingester stores an article and returns the saved record.
type Ingester interface {
	Ingest(ctx context.Context, a domain.Article) (*domain.News, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, text string) classifier.Analysis
}

// Event is broadcast for every ingested article. KeywordFlag and IsFake come
// from independent classifiers and may disagree.
type Event struct {
	ID          string  `json:"id"`
	NewsID      string  `json:"news_id"`
	Title       string  `json:"title"`
	Source      string  `json:"source"`
	Link        string  `json:"link"`
	KeywordFlag bool    `json:"keyword_flag"`
	IsFake      bool    `json:"is_fake"`
	Confidence  float64 `json:"confidence"`
	Message     string  `json:"message"`
}

type Consumer struct {
	consumer    queue.Consumer
	ingester    Ingester
	analyzer    Analyzer
	notifier    notifier.Notifier
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewConsumer(c queue.Consumer, i Ingester, a Analyzer, n notifier.Notifier, b Broadcaster, logger *slog.Logger) *Consumer {
	return &Consumer{
		consumer:    c,
		ingester:    i,
		analyzer:    a,
		notifier:    n,
		broadcaster: b,
		logger:      logger.With("component", "consumer"),
	}
}

func (w *Consumer) Start(ctx context.Context) error {
	return w.consumer.Consume(ctx, w.HandleArticle)
}

// HandleArticle saves, classifies and announces one article. A storage
// failure is returned so the message is not acknowledged; an article that can
// never be stored is logged and dropped.
func (w *Consumer) HandleArticle(ctx context.Context, a domain.Article) error {
	w.logger.DebugContext(ctx, "received", "id", a.ID, "title", truncate(a.Title, 60))

	saved, err := w.ingester.Ingest(ctx, a)
	if errors.Is(err, news.ErrInvalid) {
		w.logger.WarnContext(ctx, "dropping invalid article", "id", a.ID, "error", err)
		return nil
	}
	if err != nil {
		w.logger.ErrorContext(ctx, "save failed", "id", a.ID, "error", err)
		return err
	}

	result := w.analyzer.Analyze(ctx, a.Text())

	event := Event{
		ID:          a.ID,
		NewsID:      saved.ID.String(),
		Title:       a.Title,
		Source:      a.Source,
		Link:        a.Link,
		KeywordFlag: saved.Fake,
		IsFake:      result.IsFake,
		Confidence:  result.Confidence,
		Message:     result.Message,
	}

	if w.broadcaster != nil {
		if data, err := json.Marshal(event); err == nil {
			w.broadcaster.Broadcast(string(data))
		}
	}

	w.logger.InfoContext(ctx, "classified",
		"id", a.ID,
		"keyword_flag", saved.Fake,
		"is_fake", result.IsFake,
		"confidence", result.Confidence,
	)

	if result.IsFake {
		if err := w.notifier.Notify(ctx, notifier.Notification{
			Article:  a,
			Analysis: result,
			Flagged:  saved.Fake,
		}); err != nil {
			w.logger.ErrorContext(ctx, "notify failed", "id", a.ID, "error", err)
		}
	}

	return nil
}
