// Package news stores news records, flagging each with the keyword
// heuristic on save. The flag is independent of the transformer classifier.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fakenews/internal/domain"
	"fakenews/internal/keyword"
	"fakenews/internal/storage"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200

	fallbackTitleLength = 80
)

var (
	ErrNotFound = errors.New("news not found")
	ErrInvalid  = errors.New("title is required")
)

// articleNamespace derives stable record IDs from feed article IDs so a
// redelivered article overwrites its earlier record.
var articleNamespace = uuid.MustParse("6f0c1c38-2d3e-4a8e-9a57-3f7f0a3c9b11")

// CreateCommand is the input for a new record.
type CreateCommand struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Stats struct {
	Total int `json:"total"`
	Fake  int `json:"fake"`
}

type Service struct {
	repo   storage.NewsRepository
	scorer *keyword.Scorer
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo storage.NewsRepository, scorer *keyword.Scorer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		scorer: scorer,
		logger: logger.With("component", "news"),
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.News, error) {
	return s.save(ctx, uuid.New(), cmd)
}

// Ingest stores a feed article. Untitled articles take their title from the
// link, then from the start of the content. ErrInvalid means the article has
// neither and retrying cannot help.
func (s *Service) Ingest(ctx context.Context, a domain.Article) (*domain.News, error) {
	return s.save(ctx, uuid.NewSHA1(articleNamespace, []byte(a.ID)), CreateCommand{
		Title:   articleTitle(a),
		Content: a.Text(),
	})
}

func articleTitle(a domain.Article) string {
	if t := strings.TrimSpace(a.Title); t != "" {
		return t
	}
	if l := strings.TrimSpace(a.Link); l != "" {
		return l
	}
	r := []rune(strings.TrimSpace(a.Content))
	if len(r) > fallbackTitleLength {
		return string(r[:fallbackTitleLength]) + "..."
	}
	return string(r)
}

func (s *Service) save(ctx context.Context, id uuid.UUID, cmd CreateCommand) (*domain.News, error) {
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, ErrInvalid
	}

	n := domain.News{
		ID:        id,
		Title:     cmd.Title,
		Content:   cmd.Content,
		CreatedAt: s.now().UTC(),
	}

	if term, ok := s.scorer.Match(n.Content); ok {
		n.Fake = true
		s.logger.DebugContext(ctx, "keyword flagged", "id", n.ID, "term", term)
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("save news: %w", err)
	}

	return &n, nil
}

func (s *Service) Find(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find news: %w", err)
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

// List returns records newest first. limit is clamped to [1, MaxLimit] and
// defaults to DefaultLimit.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.News, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, fake, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("news stats: %w", err)
	}
	return Stats{Total: total, Fake: fake}, nil
}

// MapHTTPStatus maps news errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
