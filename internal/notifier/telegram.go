package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"
)

const telegramAPI = "https://api.telegram.org"

type Telegram struct {
	baseURL  string
	botToken string
	chatIDs  []string
	client   *http.Client
}

func NewTelegram(botToken string, chatIDs []string) *Telegram {
	return &Telegram{
		baseURL:  telegramAPI,
		botToken: botToken,
		chatIDs:  chatIDs,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the notifier at another Bot API host.
func (t *Telegram) WithBaseURL(url string) *Telegram {
	t.baseURL = url
	return t
}

func (t *Telegram) Notify(ctx context.Context, n Notification) error {
	text := formatMessage(n)

	for _, chatID := range t.chatIDs {
		if err := t.send(ctx, chatID, text); err != nil {
			return err
		}
	}

	return nil
}

func (t *Telegram) send(ctx context.Context, chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	body, _ := json.Marshal(map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %d", resp.StatusCode)
	}

	return nil
}

func formatMessage(n Notification) string {
	keyword := "no"
	if n.Flagged {
		keyword = "yes"
	}

	return fmt.Sprintf(`🚨 <b>Possible fake news</b>

<b>Source:</b> %s
<b>Title:</b> %s
<b>Model:</b> %s
<b>Keyword flag:</b> %s

%s`,
		html.EscapeString(n.Article.Source),
		html.EscapeString(n.Article.Title),
		html.EscapeString(n.Analysis.Message),
		keyword,
		html.EscapeString(n.Article.Link),
	)
}
