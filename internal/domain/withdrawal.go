package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalApproved  WithdrawalStatus = "approved"
	WithdrawalRejected  WithdrawalStatus = "rejected"
	WithdrawalCompleted WithdrawalStatus = "completed"
)

// Withdrawal is a payout request. The app only creates pending records after
// an atomic point deduction; status transitions happen in the back office.
type Withdrawal struct {
	ID          int64            `db:"id" json:"id"`
	Reference   string           `db:"reference" json:"reference"`
	UserID      int64            `db:"user_id" json:"-"`
	Points      int64            `db:"points" json:"points"`
	Method      string           `db:"method" json:"method"`
	Details     string           `db:"details" json:"details"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	RequestedAt time.Time        `db:"requested_at" json:"requested_at"`
}
