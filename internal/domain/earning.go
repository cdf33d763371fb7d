package domain

import "time"

type EarningType string

const (
	EarningReferral   EarningType = "referral"
	EarningTask       EarningType = "task"
	EarningBlog       EarningType = "blog"
	EarningShop       EarningType = "shop"
	EarningWithdrawal EarningType = "withdrawal"
)

// Earning is one immutable audit-log entry for a credit event. Rows are
// insert-only; the repository exposes no update or delete.
type Earning struct {
	ID               int64       `db:"id" json:"id"`
	UserID           int64       `db:"user_id" json:"user_id"`
	Type             EarningType `db:"type" json:"type"`
	Amount           int64       `db:"amount" json:"amount"`
	Status           string      `db:"status" json:"status"`
	Description      string      `db:"description" json:"description"`
	ReferenceID      *int64      `db:"reference_id" json:"reference_id,omitempty"`
	ReferredUserID   *int64      `db:"referred_user_id" json:"referred_user_id,omitempty"`
	ReferralLevel    *int        `db:"referral_level" json:"referral_level,omitempty"`
	TaskSubmissionID *int64      `db:"task_submission_id" json:"task_submission_id,omitempty"`
	BlogID           *int64      `db:"blog_id" json:"blog_id,omitempty"`
	OrderID          *int64      `db:"order_id" json:"order_id,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
}
