package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"fakenews/internal/domain"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an already opened connection pool.
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Save(ctx context.Context, n domain.News) error {
	query := `
		INSERT INTO news (id, title, content, is_fake, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, is_fake = EXCLUDED.is_fake
	`

	_, err := p.db.ExecContext(ctx, query,
		n.ID,
		n.Title,
		n.Content,
		n.Fake,
		n.CreatedAt,
	)

	return err
}

func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	query := `
		SELECT id, title, content, is_fake, created_at
		FROM news WHERE id = $1
	`

	var n domain.News
	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Fake,
		&n.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (p *Postgres) FindAll(ctx context.Context, limit, offset int) ([]domain.News, error) {
	query := `
		SELECT id, title, content, is_fake, created_at
		FROM news ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`

	rows, err := p.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	news := []domain.News{}
	for rows.Next() {
		var n domain.News
		if err := rows.Scan(
			&n.ID,
			&n.Title,
			&n.Content,
			&n.Fake,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		news = append(news, n)
	}

	return news, rows.Err()
}

func (p *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	return err
}

func (p *Postgres) Stats(ctx context.Context) (total, fake int, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_fake) FROM news`

	err = p.db.QueryRowContext(ctx, query).Scan(&total, &fake)
	return total, fake, err
}
