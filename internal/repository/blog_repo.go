package repository

import (
	"context"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogRepository struct {
	db *pgxpool.Pool
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO blogs (author_id, title, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		b.AuthorID, b.Title, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, author_id, title, status, ad_revenue, total_earnings, created_at
		 FROM blogs WHERE id = $1`, id)

	var b domain.Blog
	if err := row.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Status, &b.AdRevenue,
		&b.TotalEarnings, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetAdRevenueTx records the new cumulative ad revenue figure and adds the
// delta to the blog's lifetime earnings. Locks the row so concurrent
// revenue updates compute their deltas serially.
func (r *BlogRepository) SetAdRevenueTx(ctx context.Context, tx pgx.Tx, id, adRevenue int64) (delta int64, err error) {
	var current int64
	if err = tx.QueryRow(ctx,
		`SELECT ad_revenue FROM blogs WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
		return 0, err
	}

	delta = adRevenue - current
	_, err = tx.Exec(ctx,
		`UPDATE blogs SET ad_revenue = $2, total_earnings = total_earnings + $3
		 WHERE id = $1`,
		id, adRevenue, delta)
	return delta, err
}
