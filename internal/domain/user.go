package domain

import "time"

type User struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	Whatsapp      string    `db:"whatsapp" json:"whatsapp,omitempty"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	ReferralCode  string    `db:"referral_code" json:"referral_code"`
	ReferredBy    *int64    `db:"referred_by" json:"referred_by,omitempty"`
	ReferralLevel int       `db:"referral_level" json:"referral_level"`
	IsBlocked     bool      `db:"is_blocked" json:"is_blocked"`
	IsAdmin       bool      `db:"is_admin" json:"is_admin"`
	IsVendor      bool      `db:"is_vendor" json:"is_vendor"`
	Ledger        Ledger    `json:"ledger"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Ledger holds the mutable balance fields of a user.
// All amounts are in minor units (paisa).
type Ledger struct {
	TotalEarnings    int64 `db:"total_earnings" json:"total_earnings"`
	TotalWithdrawals int64 `db:"total_withdrawals" json:"total_withdrawals"`
	CurrentBalance   int64 `db:"current_balance" json:"current_balance"`
	PendingEarnings  int64 `db:"pending_earnings" json:"pending_earnings"`
	ReferralEarnings int64 `db:"referral_earnings" json:"referral_earnings"`
	TaskEarnings     int64 `db:"task_earnings" json:"task_earnings"`
	BlogEarnings     int64 `db:"blog_earnings" json:"blog_earnings"`
	ShopEarnings     int64 `db:"shop_earnings" json:"shop_earnings"`
}
