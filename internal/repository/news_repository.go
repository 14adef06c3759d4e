package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewsArticle struct {
	ID          string
	Title       string
	Excerpt     string
	Content     string
	Author      string
	Category    string
	ImageURL    *string
	Featured    bool
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewsRepository interface {
	Create(ctx context.Context, article *NewsArticle) error
	FindByID(ctx context.Context, id string) (*NewsArticle, error)
	// FindAll lists featured articles first, then newest first.
	FindAll(ctx context.Context) ([]*NewsArticle, error)
	Update(ctx context.Context, article *NewsArticle) error
	Delete(ctx context.Context, id string) error
}

type pgNewsRepository struct {
	pool *pgxpool.Pool
}

func NewNewsRepository(pool *pgxpool.Pool) NewsRepository {
	return &pgNewsRepository{pool: pool}
}

const newsColumns = `id, title, excerpt, content, author, category, image_url, featured, published_at, created_at, updated_at`

func scanNews(row pgx.Row) (*NewsArticle, error) {
	n := &NewsArticle{}
	err := row.Scan(
		&n.ID, &n.Title, &n.Excerpt, &n.Content, &n.Author, &n.Category,
		&n.ImageURL, &n.Featured, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *pgNewsRepository) Create(ctx context.Context, n *NewsArticle) error {
	if n.PublishedAt.IsZero() {
		n.PublishedAt = time.Now()
	}
	query := `
		INSERT INTO news (title, excerpt, content, author, category, image_url, featured, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		n.Title, n.Excerpt, n.Content, n.Author, n.Category, n.ImageURL, n.Featured, n.PublishedAt,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func (r *pgNewsRepository) FindByID(ctx context.Context, id string) (*NewsArticle, error) {
	n, err := scanNews(r.pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return n, err
}

func (r *pgNewsRepository) FindAll(ctx context.Context) ([]*NewsArticle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+newsColumns+` FROM news ORDER BY featured DESC, published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*NewsArticle
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, n)
	}
	return articles, rows.Err()
}

func (r *pgNewsRepository) Update(ctx context.Context, n *NewsArticle) error {
	query := `
		UPDATE news
		SET title = $2, excerpt = $3, content = $4, author = $5, category = $6,
		    image_url = $7, featured = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		n.ID, n.Title, n.Excerpt, n.Content, n.Author, n.Category, n.ImageURL, n.Featured,
	).Scan(&n.UpdatedAt)
}

func (r *pgNewsRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	return err
}
