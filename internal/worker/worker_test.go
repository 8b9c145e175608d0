package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakenews/internal/classifier"
	"fakenews/internal/config"
	"fakenews/internal/domain"
	"fakenews/internal/keyword"
	"fakenews/internal/news"
	"fakenews/internal/notifier"
	"fakenews/internal/worker"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubScraper struct {
	byFeed map[string][]domain.Article
	errs   map[string]error
	calls  []string
}

func (s *stubScraper) Scrape(ctx context.Context, feed string) ([]domain.Article, error) {
	s.calls = append(s.calls, feed)
	return s.byFeed[feed], s.errs[feed]
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
	failures  int
}

func (p *recordingPublisher) Publish(ctx context.Context, a domain.Article) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.failures > 0 {
		p.failures--
		return errors.New("kafka: leader not available")
	}
	p.published = append(p.published, a.ID)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memSeen struct {
	ids map[string]bool
}

func (m *memSeen) ForgetSeen(ctx context.Context, id string) error {
	delete(m.ids, id)
	return nil
}

func (m *memSeen) MarkSeen(ctx context.Context, id string) (bool, error) {
	if m.ids[id] {
		return false, nil
	}
	m.ids[id] = true
	return true, nil
}

type staticFeeds []string

func (f staticFeeds) GetFeeds(ctx context.Context) ([]string, error) { return f, nil }

func TestScrapeAll_DedupesAcrossPasses(t *testing.T) {
	s := &stubScraper{byFeed: map[string][]domain.Article{
		"a": {{ID: "1"}, {ID: "2"}},
		"b": {{ID: "2"}, {ID: "3"}},
	}}
	pub := &recordingPublisher{}
	w := worker.NewScraper(s, pub, staticFeeds{"b", "a"}, &memSeen{ids: map[string]bool{}},
		config.ScraperConfig{Feeds: []string{"a"}, Interval: time.Minute}, discard())

	w.ScrapeAll(context.Background())
	w.ScrapeAll(context.Background())

	assert.Equal(t, []string{"a", "b", "a", "b"}, s.calls)
	assert.Equal(t, []string{"1", "2", "3"}, pub.published)
}

func TestScrapeAll_ContinuesAfterFeedError(t *testing.T) {
	s := &stubScraper{
		byFeed: map[string][]domain.Article{"ok": {{ID: "1"}}},
		errs:   map[string]error{"broken": errors.New("timeout")},
	}
	pub := &recordingPublisher{}
	w := worker.NewScraper(s, pub, nil, &memSeen{ids: map[string]bool{}},
		config.ScraperConfig{Feeds: []string{"broken", "ok"}, Interval: time.Minute}, discard())

	w.ScrapeAll(context.Background())

	assert.Equal(t, []string{"1"}, pub.published)
}

func TestScrapeAll_RetriesAfterPublishFailure(t *testing.T) {
	s := &stubScraper{byFeed: map[string][]domain.Article{
		"a": {{ID: "1"}, {ID: "2"}},
	}}
	pub := &recordingPublisher{failures: 2}
	seen := &memSeen{ids: map[string]bool{}}
	w := worker.NewScraper(s, pub, nil, seen,
		config.ScraperConfig{Feeds: []string{"a"}, Interval: time.Minute}, discard())

	w.ScrapeAll(context.Background())
	assert.Empty(t, pub.published)
	assert.Empty(t, seen.ids)

	w.ScrapeAll(context.Background())
	assert.Equal(t, []string{"1", "2"}, pub.published)

	w.ScrapeAll(context.Background())
	assert.Equal(t, []string{"1", "2"}, pub.published)
}

func TestScraperStart_StopsOnCancel(t *testing.T) {
	s := &stubScraper{}
	w := worker.NewScraper(s, &recordingPublisher{}, nil, &memSeen{ids: map[string]bool{}},
		config.ScraperConfig{Feeds: []string{"a"}, Interval: time.Hour}, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scraper did not stop")
	}
}

type stubIngester struct {
	err   error
	saved []domain.Article
}

func (s *stubIngester) Ingest(ctx context.Context, a domain.Article) (*domain.News, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = append(s.saved, a)
	return &domain.News{ID: uuid.New(), Title: a.Title, Content: a.Text(), Fake: a.Title == "flagged"}, nil
}

type fixedAnalyzer struct {
	result classifier.Analysis
	texts  []string
}

func (f *fixedAnalyzer) Analyze(ctx context.Context, text string) classifier.Analysis {
	f.texts = append(f.texts, text)
	return f.result
}

type recordingNotifier struct {
	sent []notifier.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n notifier.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

type recordingBroadcaster struct {
	msgs []string
}

func (r *recordingBroadcaster) Broadcast(msg string) { r.msgs = append(r.msgs, msg) }

func TestHandleArticle_FakeNotifies(t *testing.T) {
	ing := &stubIngester{}
	an := &fixedAnalyzer{result: classifier.Analysis{IsFake: true, Confidence: 0.8, Message: "Fake news confidence: 80.00%"}}
	nt := &recordingNotifier{}
	bc := &recordingBroadcaster{}
	w := worker.NewConsumer(nil, ing, an, nt, bc, discard())

	err := w.HandleArticle(context.Background(), domain.Article{ID: "x", Title: "flagged", Content: "body"})

	require.NoError(t, err)
	assert.Equal(t, []string{"body"}, an.texts)
	require.Len(t, nt.sent, 1)
	assert.True(t, nt.sent[0].Flagged)

	require.Len(t, bc.msgs, 1)
	var ev worker.Event
	require.NoError(t, json.Unmarshal([]byte(bc.msgs[0]), &ev))
	assert.Equal(t, "x", ev.ID)
	assert.True(t, ev.KeywordFlag)
	assert.True(t, ev.IsFake)
	assert.Equal(t, 0.8, ev.Confidence)
}

func TestHandleArticle_RealDoesNotNotify(t *testing.T) {
	nt := &recordingNotifier{}
	w := worker.NewConsumer(nil, &stubIngester{}, &fixedAnalyzer{}, nt, nil, discard())

	require.NoError(t, w.HandleArticle(context.Background(), domain.Article{ID: "y", Title: "t"}))
	assert.Empty(t, nt.sent)
}

func TestHandleArticle_SaveErrorSkipsClassification(t *testing.T) {
	an := &fixedAnalyzer{}
	w := worker.NewConsumer(nil, &stubIngester{err: errors.New("db down")}, an, notifier.Noop{}, nil, discard())

	err := w.HandleArticle(context.Background(), domain.Article{ID: "z", Title: "t"})

	assert.EqualError(t, err, "db down")
	assert.Empty(t, an.texts)
}

func TestHandleArticle_InvalidArticleIsDropped(t *testing.T) {
	an := &fixedAnalyzer{}
	w := worker.NewConsumer(nil, &stubIngester{err: news.ErrInvalid}, an, notifier.Noop{}, nil, discard())

	err := w.HandleArticle(context.Background(), domain.Article{ID: "empty"})

	assert.NoError(t, err)
	assert.Empty(t, an.texts)
}

type memRepo struct {
	saved []domain.News
}

func (r *memRepo) Save(ctx context.Context, n domain.News) error {
	r.saved = append(r.saved, n)
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	return nil, nil
}

func (r *memRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.News, error) {
	return nil, nil
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *memRepo) Stats(ctx context.Context) (int, int, error) { return len(r.saved), 0, nil }

func TestHandleArticle_UntitledArticleIsAnalyzed(t *testing.T) {
	repo := &memRepo{}
	svc := news.NewService(repo, keyword.NewScorer(nil), discard())
	an := &fixedAnalyzer{result: classifier.Analysis{IsFake: true, Confidence: 0.7}}
	nt := &recordingNotifier{}
	w := worker.NewConsumer(nil, svc, an, nt, nil, discard())

	err := w.HandleArticle(context.Background(), domain.Article{ID: "u", Content: "shocking body with no title"})

	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "shocking body with no title", repo.saved[0].Title)
	assert.True(t, repo.saved[0].Fake)
	assert.Equal(t, []string{"shocking body with no title"}, an.texts)
	assert.Len(t, nt.sent, 1)
}
