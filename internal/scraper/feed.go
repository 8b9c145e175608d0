package scraper

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"fakenews/internal/domain"
)

// Feed fetches RSS and Atom news feeds.
type Feed struct {
	client *http.Client
	parser *gofeed.Parser
	now    func() time.Time
}

func NewFeed(timeout time.Duration) *Feed {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Feed{
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

func (f *Feed) Scrape(ctx context.Context, feedURL string) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "fakenews/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		key := item.GUID
		if key == "" {
			key = item.Link
		}
		if key == "" {
			continue
		}

		publishedAt := f.now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		articles = append(articles, domain.Article{
			ID:          generateID(key),
			ExternalID:  key,
			Source:      feed.Title,
			Title:       strings.TrimSpace(item.Title),
			Content:     strings.TrimSpace(content),
			Link:        item.Link,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

func generateID(guid string) string {
	hash := md5.Sum([]byte(guid))
	return fmt.Sprintf("%x", hash)[:12]
}
