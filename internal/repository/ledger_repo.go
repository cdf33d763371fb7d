package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository performs atomic increments on the users ledger columns.
// Every mutation is a single UPDATE of the form "SET col = col + $1" so
// concurrent credits never lose updates; there is no read-modify-write
// round trip anywhere in this package.
type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreditReferral credits a referral earning: referral_earnings,
// current_balance and total_earnings move together.
func (r *LedgerRepository) CreditReferral(ctx context.Context, userID, amount int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET referral_earnings = referral_earnings + $1,
		        current_balance = current_balance + $1,
		        total_earnings = total_earnings + $1
		 WHERE id = $2`,
		amount, userID)
	return err
}

// CreditTaskTx credits a task earning inside an existing transaction.
func (r *LedgerRepository) CreditTaskTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET task_earnings = task_earnings + $1,
		        current_balance = current_balance + $1,
		        total_earnings = total_earnings + $1
		 WHERE id = $2`,
		amount, userID)
	return err
}

// CreditBlogTx credits a blog ad-revenue earning inside an existing
// transaction.
func (r *LedgerRepository) CreditBlogTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET blog_earnings = blog_earnings + $1,
		        current_balance = current_balance + $1,
		        total_earnings = total_earnings + $1
		 WHERE id = $2`,
		amount, userID)
	return err
}

// CreditShopTx credits a vendor commission inside an existing transaction.
func (r *LedgerRepository) CreditShopTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET shop_earnings = shop_earnings + $1,
		        current_balance = current_balance + $1,
		        total_earnings = total_earnings + $1
		 WHERE id = $2`,
		amount, userID)
	return err
}

// ReserveForWithdrawalTx moves amount from current_balance into
// pending_earnings, guarded so the balance can never go negative.
// Returns false when the user's balance is insufficient.
func (r *LedgerRepository) ReserveForWithdrawalTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET current_balance = current_balance - $1,
		        pending_earnings = pending_earnings + $1
		 WHERE id = $2 AND current_balance >= $1`,
		amount, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FinalizeWithdrawalTx converts a reservation into a completed withdrawal:
// pending_earnings releases into total_withdrawals. current_balance was
// already debited when the reservation was taken.
func (r *LedgerRepository) FinalizeWithdrawalTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET pending_earnings = pending_earnings - $1,
		        total_withdrawals = total_withdrawals + $1
		 WHERE id = $2`,
		amount, userID)
	return err
}

// ReleaseWithdrawalTx returns a rejected reservation to the spendable
// balance.
func (r *LedgerRepository) ReleaseWithdrawalTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET pending_earnings = pending_earnings - $1,
		        current_balance = current_balance + $1
		 WHERE id = $2`,
		amount, userID)
	return err
}
