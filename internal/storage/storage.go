package storage

import (
	"context"

	"github.com/google/uuid"

	"fakenews/internal/domain"
)

// NewsRepository persists news records. FindByID returns nil, nil when the
// record does not exist.
type NewsRepository interface {
	Save(ctx context.Context, n domain.News) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.News, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.News, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (total, fake int, err error)
}
