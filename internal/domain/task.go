package domain

import "time"

type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
	TaskCancelled TaskStatus = "cancelled"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Task carries a fixed commission schedule set at creation time. The
// schedule is independent of the worker's actual payout and is not
// required to sum to Cost.
type Task struct {
	ID               int64      `db:"id" json:"id"`
	ClientID         int64      `db:"client_id" json:"client_id"`
	PostLink         string     `db:"post_link" json:"post_link"`
	Quantity         int        `db:"quantity" json:"quantity"`
	Cost             int64      `db:"cost" json:"cost"`
	Status           TaskStatus `db:"status" json:"status"`
	CompletedCount   int        `db:"completed_count" json:"completed_count"`
	WorkerPay        int64      `db:"worker_pay" json:"worker_pay"`
	Level1Commission int64      `db:"level1_commission" json:"level1_commission"`
	Level2Commission int64      `db:"level2_commission" json:"level2_commission"`
	Level3Commission int64      `db:"level3_commission" json:"level3_commission"`
	CompanyShare     int64      `db:"company_share" json:"company_share"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// Default schedule for new tasks, in paisa: 1 PKR worker pay,
// 0.10 per upline level, 0.30 company share.
const (
	DefaultWorkerPay       = 100
	DefaultLevelCommission = 10
	DefaultCompanyShare    = 30
	MaxReferralDepth       = 3
)

// CommissionForLevel returns the fixed upline commission for a depth of
// 1..3; zero for anything outside that range.
func (t *Task) CommissionForLevel(level int) int64 {
	switch level {
	case 1:
		return t.Level1Commission
	case 2:
		return t.Level2Commission
	case 3:
		return t.Level3Commission
	default:
		return 0
	}
}

type TaskSubmission struct {
	ID         int64            `db:"id" json:"id"`
	TaskID     int64            `db:"task_id" json:"task_id"`
	WorkerID   int64            `db:"worker_id" json:"worker_id"`
	Proof      string           `db:"proof" json:"proof"`
	Status     SubmissionStatus `db:"status" json:"status"`
	Earnings   int64            `db:"earnings" json:"earnings"`
	AdminNotes string           `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
}

// Terminal reports whether the submission has reached a final state.
func (s *TaskSubmission) Terminal() bool {
	return s.Status == SubmissionApproved || s.Status == SubmissionRejected
}
