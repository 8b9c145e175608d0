package scraper

import (
	"context"

	"fakenews/internal/domain"
)

type Scraper interface {
	Scrape(ctx context.Context, feedURL string) ([]domain.Article, error)
}
