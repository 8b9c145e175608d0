package queue

import (
	"context"

	"fakenews/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, a domain.Article) error
	Close() error
}

// Consumer delivers queued articles to handler until ctx is done. A message is
// marked consumed when handler returns nil. A failed message stays unmarked, but
// a later success on the same partition commits past it, so handlers should
// fail only on transient errors.
type Consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, a domain.Article) error) error
	Close() error
}
