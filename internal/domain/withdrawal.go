package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

type AccountDetails struct {
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

type Withdrawal struct {
	ID             int64            `db:"id" json:"id"`
	UserID         int64            `db:"user_id" json:"user_id"`
	Amount         int64            `db:"amount" json:"amount"`
	PaymentMethod  string           `db:"payment_method" json:"payment_method"`
	AccountDetails AccountDetails   `db:"account_details" json:"account_details"`
	Status         WithdrawalStatus `db:"status" json:"status"`
	AdminNotes     string           `db:"admin_notes" json:"admin_notes,omitempty"`
	ProcessedAt    *time.Time       `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

var paymentMethods = map[string]bool{
	"easypaisa": true,
	"jazzcash":  true,
	"bank":      true,
	"other":     true,
}

func ValidPaymentMethod(m string) bool {
	return paymentMethods[m]
}
