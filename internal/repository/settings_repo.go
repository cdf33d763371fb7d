package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

const (
	settingsCacheKey = "app:settings"
	settingsCacheTTL = 30 * time.Second
)

// SettingsRepository reads the single app_settings row, with a short
// Redis cache in front of it. The cache is best-effort: when Redis is
// absent or failing, every read falls through to Postgres.
type SettingsRepository struct {
	db    *pgxpool.Pool
	cache *redis.Client
}

func NewSettingsRepository(db *pgxpool.Pool, cache *redis.Client) *SettingsRepository {
	return &SettingsRepository{db: db, cache: cache}
}

// Get returns the current settings, falling back to defaults when the
// seed row is missing.
func (r *SettingsRepository) Get(ctx context.Context) (domain.AppSettings, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, settingsCacheKey).Bytes(); err == nil {
			var s domain.AppSettings
			if json.Unmarshal(raw, &s) == nil {
				return s, nil
			}
		}
	}

	var s domain.AppSettings
	err := r.db.QueryRow(ctx,
		`SELECT referral_signup_bonus, min_withdrawal_amount, video_rate_per_minute, updated_by, updated_at
		 FROM app_settings WHERE key = 'app-settings'`,
	).Scan(&s.ReferralSignupBonus, &s.MinWithdrawalAmount, &s.VideoRatePerMinute, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.AppSettings{}, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(s); err == nil {
			r.cache.Set(ctx, settingsCacheKey, raw, settingsCacheTTL)
		}
	}
	return s, nil
}

// Update upserts the settings row and invalidates the cache.
func (r *SettingsRepository) Update(ctx context.Context, s domain.AppSettings) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO app_settings (key, referral_signup_bonus, min_withdrawal_amount, video_rate_per_minute, updated_by, updated_at)
		 VALUES ('app-settings', $1, $2, $3, $4, NOW())
		 ON CONFLICT (key) DO UPDATE SET
		        referral_signup_bonus = EXCLUDED.referral_signup_bonus,
		        min_withdrawal_amount = EXCLUDED.min_withdrawal_amount,
		        video_rate_per_minute = EXCLUDED.video_rate_per_minute,
		        updated_by = EXCLUDED.updated_by,
		        updated_at = NOW()`,
		s.ReferralSignupBonus, s.MinWithdrawalAmount, s.VideoRatePerMinute, s.UpdatedBy)
	if err != nil {
		return err
	}

	if r.cache != nil {
		r.cache.Del(ctx, settingsCacheKey)
	}
	return nil
}
