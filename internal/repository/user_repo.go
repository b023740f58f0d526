package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"tapearn_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, tg_id, COALESCE(username, ''), COALESCE(first_name, ''), referral_code, referred_by,
	points, energy, max_energy, energy_per_tap, points_per_tap, refill_seconds, last_energy_update,
	daily_taps, last_tap_reset, daily_ads, last_ad_reset, daily_tasks, last_task_reset,
	last_ad_reward_at, total_referrals, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GenerateReferralCode generates an opaque public id used in referral links.
func GenerateReferralCode() string {
	bytes := make([]byte, 6)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.TgID, &u.Username, &u.FirstName, &u.ReferralCode, &u.ReferredBy,
		&u.Points, &u.Energy, &u.MaxEnergy, &u.EnergyPerTap, &u.PointsPerTap, &u.RefillSeconds, &u.LastEnergyUpdate,
		&u.DailyTaps, &u.LastTapReset, &u.DailyAds, &u.LastAdReset, &u.DailyTasks, &u.LastTaskReset,
		&u.LastAdRewardAt, &u.TotalReferrals, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code))
}

// CreateTx inserts a new user inside an existing transaction. Economy columns
// come from the struct so defaults stay in config, not in SQL.
func (r *UserRepository) CreateTx(ctx context.Context, tx pgx.Tx, u *domain.User) error {
	return tx.QueryRow(ctx,
		`INSERT INTO users (tg_id, username, first_name, referral_code, referred_by,
		   energy, max_energy, energy_per_tap, points_per_tap, refill_seconds, last_energy_update)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (tg_id) DO NOTHING
		 RETURNING id, created_at, last_tap_reset, last_ad_reset, last_task_reset`,
		u.TgID, u.Username, u.FirstName, u.ReferralCode, u.ReferredBy,
		u.Energy, u.MaxEnergy, u.EnergyPerTap, u.PointsPerTap, u.RefillSeconds, u.LastEnergyUpdate,
	).Scan(&u.ID, &u.CreatedAt, &u.LastTapReset, &u.LastAdReset, &u.LastTaskReset)
}

// GrantReferralBonusTx credits the referrer for one verified referral.
func (r *UserRepository) GrantReferralBonusTx(ctx context.Context, tx pgx.Tx, referrerID, bonus int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET points = points + $1, total_referrals = total_referrals + 1 WHERE id = $2`,
		bonus, referrerID,
	)
	return err
}

// PersistEnergy writes a regenerated energy value, guarded by the old
// checkpoint so concurrent reconciles never double-credit elapsed time.
// Zero rows affected means another request got there first; that is fine.
func (r *UserRepository) PersistEnergy(ctx context.Context, userID int64, energy int, checkpoint, oldCheckpoint time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET energy = $1, last_energy_update = $2
		 WHERE id = $3 AND last_energy_update = $4`,
		energy, checkpoint, userID, oldCheckpoint,
	)
	return err
}

// ResetDailyTaps zeroes the tap counter once per UTC day. The date guard
// makes concurrent resets collapse into one.
func (r *UserRepository) ResetDailyTaps(ctx context.Context, userID int64, today time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET daily_taps = 0, last_tap_reset = $1
		 WHERE id = $2 AND last_tap_reset < $1`,
		today, userID,
	)
	return err
}

func (r *UserRepository) ResetDailyAds(ctx context.Context, userID int64, today time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET daily_ads = 0, last_ad_reset = $1
		 WHERE id = $2 AND last_ad_reset < $1`,
		today, userID,
	)
	return err
}

func (r *UserRepository) ResetDailyTasks(ctx context.Context, userID int64, today time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET daily_tasks = 0, last_task_reset = $1
		 WHERE id = $2 AND last_task_reset < $1`,
		today, userID,
	)
	return err
}

// ApplyTap commits a batch of taps in one conditional update. The guards
// re-check energy and the daily limit at commit time, so a rapid double-tap
// can never overspend even though both requests saw the same snapshot.
// Returns false when the guards reject the batch.
func (r *UserRepository) ApplyTap(ctx context.Context, userID int64, count int, points int64, energyCost int, maxDailyTaps int, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET points = points + $1,
		     energy = energy - $2,
		     daily_taps = daily_taps + $3,
		     last_energy_update = $4
		 WHERE id = $5 AND energy >= $2 AND daily_taps + $3 <= $6`,
		points, energyCost, count, now, userID, maxDailyTaps,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyAdRewardTx credits an ad reward with the daily limit and cooldown
// re-checked in the predicate. cutoff = now - cooldown.
func (r *UserRepository) ApplyAdRewardTx(ctx context.Context, tx pgx.Tx, userID int64, points int64, maxDailyAds int, now, cutoff time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE users
		 SET points = points + $1,
		     daily_ads = daily_ads + 1,
		     last_ad_reward_at = $2
		 WHERE id = $3 AND daily_ads < $4
		   AND (last_ad_reward_at IS NULL OR last_ad_reward_at <= $5)`,
		points, now, userID, maxDailyAds, cutoff,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyTaskRewardTx credits a task reward and bumps the daily task counter.
func (r *UserRepository) ApplyTaskRewardTx(ctx context.Context, tx pgx.Tx, userID, points int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET points = points + $1, daily_tasks = daily_tasks + 1 WHERE id = $2`,
		points, userID,
	)
	return err
}

// DeductPointsTx subtracts points only if the balance covers it. This is the
// compare-and-swap that makes concurrent withdrawals first-wins.
func (r *UserRepository) DeductPointsTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET points = points - $1 WHERE id = $2 AND points >= $1`,
		amount, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
