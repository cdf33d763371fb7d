package repository

import (
	"context"
	"errors"
	"strings"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, name, username, email, COALESCE(whatsapp, ''), password_hash,
	referral_code, referred_by, referral_level, is_blocked, is_admin, is_vendor,
	total_earnings, total_withdrawals, current_balance, pending_earnings,
	referral_earnings, task_earnings, blog_earnings, shop_earnings, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (name, username, email, whatsapp, password_hash, referral_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Name, strings.ToLower(u.Username), strings.ToLower(u.Email), u.Whatsapp,
		u.PasswordHash, u.ReferralCode,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, strings.ToLower(username))
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

// GetByReferralCode resolves an uppercase referral code to its owner.
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE referral_code = $1`, strings.ToUpper(code))
	return scanUser(row)
}

// ReferralCodeExists reports whether a code is already taken.
func (r *UserRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)`, code).Scan(&exists)
	return exists, err
}

// SetReferrer records the parent pointer. Set-once: the update is a no-op
// when referred_by is already populated.
func (r *UserRepository) SetReferrer(ctx context.Context, userID, referrerID int64, level int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET referred_by = $1, referral_level = $2
		 WHERE id = $3 AND referred_by IS NULL`,
		referrerID, level, userID)
	return err
}

// SetReferralLevel bumps the worker's depth under their root ancestor as
// deeper ancestors are discovered during chain building.
func (r *UserRepository) SetReferralLevel(ctx context.Context, userID int64, level int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET referral_level = $1 WHERE id = $2`, level, userID)
	return err
}

// GetReferrerID returns the parent pointer, or (0, nil) when the user has
// no upline.
func (r *UserRepository) GetReferrerID(ctx context.Context, userID int64) (int64, error) {
	var referrerID *int64
	err := r.db.QueryRow(ctx,
		`SELECT referred_by FROM users WHERE id = $1`, userID).Scan(&referrerID)
	if err != nil {
		return 0, err
	}
	if referrerID == nil {
		return 0, nil
	}
	return *referrerID, nil
}

// IsBlocked reads just the block flag; used on every authenticated
// request, so it stays a single-column lookup.
func (r *UserRepository) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	var blocked bool
	err := r.db.QueryRow(ctx,
		`SELECT is_blocked FROM users WHERE id = $1`, userID).Scan(&blocked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return blocked, nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, userID int64, blocked bool) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_blocked = $1 WHERE id = $2`, blocked, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Whatsapp, &u.PasswordHash,
		&u.ReferralCode, &u.ReferredBy, &u.ReferralLevel,
		&u.IsBlocked, &u.IsAdmin, &u.IsVendor,
		&u.Ledger.TotalEarnings, &u.Ledger.TotalWithdrawals,
		&u.Ledger.CurrentBalance, &u.Ledger.PendingEarnings,
		&u.Ledger.ReferralEarnings, &u.Ledger.TaskEarnings,
		&u.Ledger.BlogEarnings, &u.Ledger.ShopEarnings,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
