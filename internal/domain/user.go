package domain

import "time"

// User is the single aggregate root of the economy. Energy and the daily
// counters are only meaningful together with their checkpoints; callers must
// go through the reconcile service before trusting either.
type User struct {
	ID           int64  `db:"id"`
	TgID         int64  `db:"tg_id"`
	Username     string `db:"username"`
	FirstName    string `db:"first_name"`
	ReferralCode string `db:"referral_code"`
	ReferredBy   *int64 `db:"referred_by"`

	Points       int64 `db:"points"`
	Energy       int   `db:"energy"`
	MaxEnergy    int   `db:"max_energy"`
	EnergyPerTap int   `db:"energy_per_tap"`
	PointsPerTap int64 `db:"points_per_tap"`
	// Seconds of elapsed time per 1 unit of regenerated energy.
	RefillSeconds    int       `db:"refill_seconds"`
	LastEnergyUpdate time.Time `db:"last_energy_update"`

	DailyTaps    int       `db:"daily_taps"`
	LastTapReset time.Time `db:"last_tap_reset"`
	DailyAds     int       `db:"daily_ads"`
	LastAdReset  time.Time `db:"last_ad_reset"`
	DailyTasks   int       `db:"daily_tasks"`
	LastTaskReset time.Time `db:"last_task_reset"`

	LastAdRewardAt *time.Time `db:"last_ad_reward_at"`
	TotalReferrals int        `db:"total_referrals"`
	CreatedAt      time.Time  `db:"created_at"`
}

// AdCooldownRemaining returns how many seconds remain before the next ad
// reward is grantable. Zero means the cooldown has elapsed.
func (u *User) AdCooldownRemaining(now time.Time, cooldown time.Duration) int {
	if u.LastAdRewardAt == nil {
		return 0
	}
	remaining := cooldown - now.Sub(*u.LastAdRewardAt)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds() + 0.999)
}
