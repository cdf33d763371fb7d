package repository

import (
	"context"
	"crypto/rand"
	"strings"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode builds an uppercase code from the username prefix
// plus a random suffix. Uniqueness is enforced by the caller via retry.
func GenerateReferralCode(username string) string {
	prefix := strings.ToUpper(username)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "USR"
	}

	buf := make([]byte, 8)
	rand.Read(buf)
	suffix := make([]byte, 8)
	for i, b := range buf {
		suffix[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return prefix + string(suffix)
}

// Record appends one projection row: referredID sits at the given depth
// below ancestorID. Re-recording the same pair is a no-op, so chain
// building can be retried safely.
func (r *ReferralRepository) Record(ctx context.Context, ancestorID, referredID int64, level int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO referrals (ancestor_id, referred_id, level)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ancestor_id, referred_id) DO NOTHING`,
		ancestorID, referredID, level)
	return err
}

// CountByLevel returns how many users sit at each depth under ancestorID,
// indexed 1..3.
func (r *ReferralRepository) CountByLevel(ctx context.Context, ancestorID int64) (map[int]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT level, COUNT(*) FROM referrals WHERE ancestor_id = $1 GROUP BY level`,
		ancestorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

// GetByAncestor lists the projection rows under a user, newest first.
func (r *ReferralRepository) GetByAncestor(ctx context.Context, ancestorID int64, limit int) ([]domain.Referral, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, ancestor_id, referred_id, level, created_at
		 FROM referrals
		 WHERE ancestor_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ancestorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []domain.Referral
	for rows.Next() {
		var ref domain.Referral
		if err := rows.Scan(&ref.ID, &ref.AncestorID, &ref.ReferredID, &ref.Level, &ref.CreatedAt); err != nil {
			return nil, err
		}
		referrals = append(referrals, ref)
	}
	return referrals, rows.Err()
}
