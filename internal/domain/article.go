package domain

import "time"

// Article is a news item pulled from a feed and queued for ingestion.
type Article struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Text is the body used for classification: content when present, else the title.
func (a Article) Text() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Title
}
