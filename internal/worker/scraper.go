package worker

import (
	"context"
	"log/slog"
	"time"

	"fakenews/internal/config"
	"fakenews/internal/queue"
	"fakenews/internal/scraper"
)

// FeedStore lists feeds added at runtime.
type FeedStore interface {
	GetFeeds(ctx context.Context) ([]string, error)
}

// SeenStore remembers which articles were already queued.
type SeenStore interface {
	MarkSeen(ctx context.Context, id string) (bool, error)
	ForgetSeen(ctx context.Context, id string) error
}

type Scraper struct {
	scraper   scraper.Scraper
	publisher queue.Publisher
	feeds     FeedStore
	seen      SeenStore
	static    []string
	interval  time.Duration
	logger    *slog.Logger
}

func NewScraper(s scraper.Scraper, p queue.Publisher, feeds FeedStore, seen SeenStore, cfg config.ScraperConfig, logger *slog.Logger) *Scraper {
	return &Scraper{
		scraper:   s,
		publisher: p,
		feeds:     feeds,
		seen:      seen,
		static:    cfg.Feeds,
		interval:  cfg.Interval,
		logger:    logger.With("component", "scraper"),
	}
}

func (w *Scraper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.ScrapeAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ScrapeAll(ctx)
		}
	}
}

// ScrapeAll runs one pass over every configured and stored feed.
func (w *Scraper) ScrapeAll(ctx context.Context) {
	for _, feed := range w.feedList(ctx) {
		articles, err := w.scraper.Scrape(ctx, feed)
		if err != nil {
			w.logger.ErrorContext(ctx, "scrape failed", "feed", feed, "error", err)
			continue
		}

		newCount := 0
		dupCount := 0
		failCount := 0

		for _, a := range articles {
			fresh, err := w.seen.MarkSeen(ctx, a.ID)
			if err != nil {
				w.logger.ErrorContext(ctx, "dedupe failed", "id", a.ID, "error", err)
				continue
			}
			if !fresh {
				dupCount++
				continue
			}

			if err := w.publisher.Publish(ctx, a); err != nil {
				w.logger.ErrorContext(ctx, "publish failed", "id", a.ID, "error", err)
				// Unmark so the next pass retries it.
				if err := w.seen.ForgetSeen(ctx, a.ID); err != nil {
					w.logger.ErrorContext(ctx, "unmark failed", "id", a.ID, "error", err)
				}
				failCount++
				continue
			}
			newCount++
			w.logger.DebugContext(ctx, "queued", "id", a.ID, "title", truncate(a.Title, 60))
		}

		w.logger.InfoContext(ctx, "feed scraped",
			"feed", feed,
			"fetched", len(articles),
			"new", newCount,
			"duplicates", dupCount,
			"failed", failCount,
		)
	}
}

func (w *Scraper) feedList(ctx context.Context) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(urls []string) {
		for _, u := range urls {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	}

	add(w.static)

	if w.feeds != nil {
		stored, err := w.feeds.GetFeeds(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "load feeds failed", "error", err)
		}
		add(stored)
	}

	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
