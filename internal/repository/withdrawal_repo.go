package repository

import (
	"context"
	"time"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const withdrawalColumns = `id, user_id, amount, payment_method,
	COALESCE(account_number, ''), COALESCE(account_name, ''),
	COALESCE(phone_number, ''), COALESCE(bank_name, ''),
	status, COALESCE(admin_notes, ''), processed_at, created_at`

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateTx inserts a pending withdrawal inside the transaction that also
// reserves the user's balance.
func (r *WithdrawalRepository) CreateTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	return tx.QueryRow(ctx,
		`INSERT INTO withdrawals (user_id, amount, payment_method,
		        account_number, account_name, phone_number, bank_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, status, created_at`,
		w.UserID, w.Amount, w.PaymentMethod,
		w.AccountDetails.AccountNumber, w.AccountDetails.AccountName,
		w.AccountDetails.PhoneNumber, w.AccountDetails.BankName,
	).Scan(&w.ID, &w.Status, &w.CreatedAt)
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWithdrawals(rows)
}

// GetAll lists withdrawals for the admin screen, optionally filtered by
// status.
func (r *WithdrawalRepository) GetAll(ctx context.Context, status string, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 200
	}

	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = r.db.Query(ctx,
			`SELECT `+withdrawalColumns+` FROM withdrawals
			 WHERE status = $1 ORDER BY created_at DESC LIMIT $2`, status, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+withdrawalColumns+` FROM withdrawals
			 ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWithdrawals(rows)
}

// HasPending reports whether the user already has an outstanding request.
func (r *WithdrawalRepository) HasPending(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM withdrawals WHERE user_id = $1 AND status = 'pending')`,
		userID).Scan(&exists)
	return exists, err
}

// MarkApprovedTx flips a pending withdrawal to approved. Returns false
// when it was already processed.
func (r *WithdrawalRepository) MarkApprovedTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE withdrawals SET status = 'approved', processed_at = $2
		 WHERE id = $1 AND status = 'pending'`, id, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRejectedTx flips a pending withdrawal to rejected. Returns false
// when it was already processed.
func (r *WithdrawalRepository) MarkRejectedTx(ctx context.Context, tx pgx.Tx, id int64, notes string) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE withdrawals SET status = 'rejected', admin_notes = $2, processed_at = $3
		 WHERE id = $1 AND status = 'pending'`, id, notes, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Amount, &w.PaymentMethod,
		&w.AccountDetails.AccountNumber, &w.AccountDetails.AccountName,
		&w.AccountDetails.PhoneNumber, &w.AccountDetails.BankName,
		&w.Status, &w.AdminNotes, &w.ProcessedAt, &w.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}
