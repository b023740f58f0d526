package service

import (
	"context"
	"errors"
	"time"

	"tapearn_webapp/internal/clock"
	"tapearn_webapp/internal/config"
	"tapearn_webapp/internal/domain"
	"tapearn_webapp/internal/logger"
	"tapearn_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RewardService applies point-earning and point-spending mutations. Every
// method takes a just-reconciled user, validates against that snapshot, then
// commits through a conditional update so a stale snapshot can reject at the
// store but never double-spend. Balance mutation and its record commit in one
// transaction.
type RewardService struct {
	db          *pgxpool.Pool
	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	withdrawals *repository.WithdrawalRepository
	ledger      *repository.LedgerRepository
	eco         config.Economy
}

func NewRewardService(db *pgxpool.Pool, eco config.Economy) *RewardService {
	return &RewardService{
		db:          db,
		users:       repository.NewUserRepository(db),
		tasks:       repository.NewTaskRepository(db),
		withdrawals: repository.NewWithdrawalRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		eco:         eco,
	}
}

// Tap commits a batch of count taps: points up, energy down, counter up.
func (s *RewardService) Tap(ctx context.Context, u *domain.User, count int) error {
	if count <= 0 || count > s.eco.MaxTapBatch {
		return ErrInvalidTapCount
	}

	energyCost := count * u.EnergyPerTap
	points := int64(count) * u.PointsPerTap

	if u.Energy < energyCost {
		RewardsRejected.WithLabelValues("tap").Inc()
		return ErrNotEnoughEnergy
	}
	if u.DailyTaps+count > s.eco.MaxDailyTaps {
		RewardsRejected.WithLabelValues("tap").Inc()
		return ErrDailyTapLimit
	}

	now := clock.NowUTC()
	ok, err := s.users.ApplyTap(ctx, u.ID, count, points, energyCost, s.eco.MaxDailyTaps, now)
	if err != nil {
		return err
	}
	if !ok {
		// Guards rejected at commit time: a concurrent request spent the
		// energy or filled the limit first.
		RewardsRejected.WithLabelValues("tap").Inc()
		if u.DailyTaps+count > s.eco.MaxDailyTaps {
			return ErrDailyTapLimit
		}
		return ErrNotEnoughEnergy
	}

	u.Points += points
	u.Energy -= energyCost
	u.DailyTaps += count
	u.LastEnergyUpdate = now

	RewardsGranted.WithLabelValues("tap").Inc()
	PointsEarned.WithLabelValues("tap").Add(float64(points))
	return nil
}

// WatchAd credits one rewarded ad view. The daily counter and the cooldown
// are independent gates; both are re-checked in the update predicate.
func (s *RewardService) WatchAd(ctx context.Context, u *domain.User) error {
	now := clock.NowUTC()
	cooldown := time.Duration(s.eco.AdCooldownSecs) * time.Second

	if u.DailyAds >= s.eco.MaxDailyAds {
		RewardsRejected.WithLabelValues("ad").Inc()
		return ErrDailyAdLimit
	}
	if u.AdCooldownRemaining(now, cooldown) > 0 {
		RewardsRejected.WithLabelValues("ad").Inc()
		return ErrAdCooldown
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ok, err := s.users.ApplyAdRewardTx(ctx, tx, u.ID, s.eco.AdRewardPoints, s.eco.MaxDailyAds, now, now.Add(-cooldown))
		if err != nil {
			return err
		}
		if !ok {
			return ErrAdCooldown
		}
		return s.ledger.CreateTx(ctx, tx, &domain.LedgerEntry{
			UserID: u.ID,
			Type:   domain.LedgerAdReward,
			Amount: s.eco.AdRewardPoints,
		})
	})
	if err != nil {
		if IsRejection(err) {
			RewardsRejected.WithLabelValues("ad").Inc()
		}
		return err
	}

	u.Points += s.eco.AdRewardPoints
	u.DailyAds++
	u.LastAdRewardAt = &now

	RewardsGranted.WithLabelValues("ad").Inc()
	PointsEarned.WithLabelValues("ad").Add(float64(s.eco.AdRewardPoints))
	return nil
}

// CompleteTask credits a task reward once. The completion-record unique
// indexes are the real duplicate guard; the pre-check only gives a friendly
// rejection without opening a transaction.
func (s *RewardService) CompleteTask(ctx context.Context, u *domain.User, taskID int64) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTaskNotFound
		}
		return err
	}
	if !task.IsActive {
		return ErrTaskInactive
	}

	today := clock.TodayUTC()

	// One-shot tasks are recorded under the epoch sentinel date so the
	// (user, task, date) unique index enforces once-ever for them too.
	completionDate := today
	if !task.Recurring {
		completionDate = time.Unix(0, 0).UTC()
	}

	done, err := s.tasks.HasCompletion(ctx, u.ID, taskID, task.Recurring, today)
	if err != nil {
		return err
	}
	if done {
		RewardsRejected.WithLabelValues("task").Inc()
		return ErrTaskAlreadyCompleted
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		inserted, err := s.tasks.InsertCompletionTx(ctx, tx, u.ID, taskID, completionDate)
		if err != nil {
			return err
		}
		if !inserted {
			return ErrTaskAlreadyCompleted
		}
		if err := s.users.ApplyTaskRewardTx(ctx, tx, u.ID, task.Reward); err != nil {
			return err
		}
		return s.ledger.CreateTx(ctx, tx, &domain.LedgerEntry{
			UserID: u.ID,
			Type:   domain.LedgerTaskReward,
			Amount: task.Reward,
			Meta:   map[string]interface{}{"task_id": taskID},
		})
	})
	if err != nil {
		if IsRejection(err) {
			RewardsRejected.WithLabelValues("task").Inc()
		}
		return err
	}

	u.Points += task.Reward
	u.DailyTasks++

	RewardsGranted.WithLabelValues("task").Inc()
	PointsEarned.WithLabelValues("task").Add(float64(task.Reward))
	return nil
}

// RequestWithdrawal deducts points and records a pending payout request.
// The deduction is conditional on the balance, so two concurrent requests
// against one balance succeed at most once combined.
func (s *RewardService) RequestWithdrawal(ctx context.Context, u *domain.User, amount int64, method, details string) (*domain.Withdrawal, error) {
	if !s.validTier(amount) {
		return nil, ErrInvalidAmount
	}
	if !s.validMethod(method) {
		return nil, ErrInvalidMethod
	}
	if details == "" {
		return nil, ErrMissingDetails
	}
	if u.Points < amount {
		RewardsRejected.WithLabelValues("withdrawal").Inc()
		return nil, ErrInsufficientPoints
	}

	w := &domain.Withdrawal{
		UserID:  u.ID,
		Points:  amount,
		Method:  method,
		Details: details,
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ok, err := s.users.DeductPointsTx(ctx, tx, u.ID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientPoints
		}
		if err := s.withdrawals.CreateTx(ctx, tx, w); err != nil {
			return err
		}
		return s.ledger.CreateTx(ctx, tx, &domain.LedgerEntry{
			UserID: u.ID,
			Type:   domain.LedgerWithdrawal,
			Amount: -amount,
			Meta:   map[string]interface{}{"reference": w.Reference, "method": method},
		})
	})
	if err != nil {
		if IsRejection(err) {
			RewardsRejected.WithLabelValues("withdrawal").Inc()
		}
		return nil, err
	}

	u.Points -= amount
	RewardsGranted.WithLabelValues("withdrawal").Inc()
	logger.Info("withdrawal requested", "user_id", u.ID, "points", amount, "method", method, "reference", w.Reference)
	return w, nil
}

func (s *RewardService) validTier(amount int64) bool {
	for _, t := range s.eco.WithdrawalTiers {
		if amount == t {
			return true
		}
	}
	return false
}

func (s *RewardService) validMethod(method string) bool {
	for _, m := range s.eco.PayoutMethods {
		if method == m {
			return true
		}
	}
	return false
}

func (s *RewardService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
