package domain

import "time"

// UserSnapshot is the authoritative state returned to the client after every
// action. Field names are part of the API contract.
type UserSnapshot struct {
	TelegramID   int64  `json:"telegram_id"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	ReferralCode string `json:"referral_code"`

	Points        int64 `json:"points"`
	Energy        int   `json:"energy"`
	MaxEnergy     int   `json:"max_energy"`
	EnergyPerTap  int   `json:"energy_per_tap"`
	PointsPerTap  int64 `json:"points_per_tap"`
	RefillSeconds int   `json:"energy_refill_seconds"`

	DailyTaps    int    `json:"daily_taps"`
	MaxDailyTaps int    `json:"max_daily_taps"`
	DailyAds     int    `json:"daily_ads"`
	MaxDailyAds  int    `json:"max_daily_ads"`
	DailyTasks   int    `json:"daily_tasks"`
	LastTapReset string `json:"last_tap_reset"`
	LastAdReset  string `json:"last_ad_reset"`
	LastTaskReset string `json:"last_task_reset"`

	AdCooldownSeconds int       `json:"ad_cooldown_seconds"`
	TotalReferrals    int       `json:"total_referrals"`
	CreatedAt         time.Time `json:"created_at"`
}

// SnapshotLimits carries the configured maxima the snapshot reports next to
// the per-user counters.
type SnapshotLimits struct {
	MaxDailyTaps int
	MaxDailyAds  int
	AdCooldown   time.Duration
}

const dateLayout = "2006-01-02"

// Snapshot builds the client-facing view of the user at the given instant.
func (u *User) Snapshot(now time.Time, limits SnapshotLimits) UserSnapshot {
	return UserSnapshot{
		TelegramID:        u.TgID,
		Username:          u.Username,
		FirstName:         u.FirstName,
		ReferralCode:      u.ReferralCode,
		Points:            u.Points,
		Energy:            u.Energy,
		MaxEnergy:         u.MaxEnergy,
		EnergyPerTap:      u.EnergyPerTap,
		PointsPerTap:      u.PointsPerTap,
		RefillSeconds:     u.RefillSeconds,
		DailyTaps:         u.DailyTaps,
		MaxDailyTaps:      limits.MaxDailyTaps,
		DailyAds:          u.DailyAds,
		MaxDailyAds:       limits.MaxDailyAds,
		DailyTasks:        u.DailyTasks,
		LastTapReset:      u.LastTapReset.Format(dateLayout),
		LastAdReset:       u.LastAdReset.Format(dateLayout),
		LastTaskReset:     u.LastTaskReset.Format(dateLayout),
		AdCooldownSeconds: u.AdCooldownRemaining(now, limits.AdCooldown),
		TotalReferrals:    u.TotalReferrals,
		CreatedAt:         u.CreatedAt,
	}
}
