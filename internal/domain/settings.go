package domain

import "time"

// AppSettings is the single tenant-configurable settings row.
// Money values are in minor units (paisa).
type AppSettings struct {
	ReferralSignupBonus int64     `db:"referral_signup_bonus" json:"referral_signup_bonus"`
	MinWithdrawalAmount int64     `db:"min_withdrawal_amount" json:"min_withdrawal_amount"`
	VideoRatePerMinute  int64     `db:"video_rate_per_minute" json:"video_rate_per_minute"`
	UpdatedBy           *int64    `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

const (
	DefaultReferralSignupBonus = 3000  // 30 PKR
	DefaultMinWithdrawalAmount = 10000 // 100 PKR
	DefaultVideoRatePerMinute  = 10    // 0.10 PKR
)

func DefaultSettings() AppSettings {
	return AppSettings{
		ReferralSignupBonus: DefaultReferralSignupBonus,
		MinWithdrawalAmount: DefaultMinWithdrawalAmount,
		VideoRatePerMinute:  DefaultVideoRatePerMinute,
	}
}
