package domain

import "time"

// Ledger entry types. Taps are deliberately not in the ledger: at thousands
// of rows per user per day the counters on the user row are the record.
const (
	LedgerAdReward      = "ad_reward"
	LedgerTaskReward    = "task_reward"
	LedgerReferralBonus = "referral_bonus"
	LedgerWithdrawal    = "withdrawal"
)

// LedgerEntry is an append-only record of a point mutation.
type LedgerEntry struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
