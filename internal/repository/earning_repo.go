package repository

import (
	"context"
	"strconv"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EarningRepository is the append-only audit log. Rows are created once
// and never mutated or deleted; there are deliberately no update methods.
type EarningRepository struct {
	db *pgxpool.Pool
}

func NewEarningRepository(db *pgxpool.Pool) *EarningRepository {
	return &EarningRepository{db: db}
}

const earningInsert = `
	INSERT INTO earnings (user_id, type, amount, status, description,
	       reference_id, referred_user_id, referral_level, task_submission_id, blog_id, order_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at`

func (r *EarningRepository) Create(ctx context.Context, e *domain.Earning) error {
	return r.db.QueryRow(ctx, earningInsert,
		e.UserID, e.Type, e.Amount, e.Status, e.Description,
		e.ReferenceID, e.ReferredUserID, e.ReferralLevel,
		e.TaskSubmissionID, e.BlogID, e.OrderID,
	).Scan(&e.ID, &e.CreatedAt)
}

// CreateTx inserts an earning inside an existing transaction.
func (r *EarningRepository) CreateTx(ctx context.Context, tx pgx.Tx, e *domain.Earning) error {
	return tx.QueryRow(ctx, earningInsert,
		e.UserID, e.Type, e.Amount, e.Status, e.Description,
		e.ReferenceID, e.ReferredUserID, e.ReferralLevel,
		e.TaskSubmissionID, e.BlogID, e.OrderID,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetByUserID returns the user's earning history, newest first, optionally
// filtered by type.
func (r *EarningRepository) GetByUserID(ctx context.Context, userID int64, earningType string, limit int) ([]domain.Earning, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, user_id, type, amount, status, description,
	       reference_id, referred_user_id, referral_level, task_submission_id, blog_id, order_id, created_at
	FROM earnings WHERE user_id = $1`
	args := []any{userID}
	if earningType != "" {
		query += ` AND type = $2`
		args = append(args, earningType)
	}
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Earning
	for rows.Next() {
		var e domain.Earning
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Type, &e.Amount, &e.Status, &e.Description,
			&e.ReferenceID, &e.ReferredUserID, &e.ReferralLevel,
			&e.TaskSubmissionID, &e.BlogID, &e.OrderID, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CountByTypeAndLevel counts referral earnings at a given level for a user.
// Used by the referral stats endpoint and the integration tests.
func (r *EarningRepository) CountByTypeAndLevel(ctx context.Context, userID int64, level int) (int, int64, error) {
	var count int
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0)
		 FROM earnings
		 WHERE user_id = $1 AND type = 'referral' AND referral_level = $2`,
		userID, level).Scan(&count, &total)
	return count, total, err
}
