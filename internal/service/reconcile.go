package service

import (
	"context"
	"errors"
	"time"

	"tapearn_webapp/internal/clock"
	"tapearn_webapp/internal/config"
	"tapearn_webapp/internal/domain"
	"tapearn_webapp/internal/economy"
	"tapearn_webapp/internal/logger"
	"tapearn_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconcileService recomputes a user's authoritative state from elapsed time
// before any action touches it: load, regenerate energy, reset expired daily
// counters, persist what changed. There is no background job — every request
// pulls the state current itself, which is enough because the math is a pure
// function of the stored checkpoints.
type ReconcileService struct {
	db    *pgxpool.Pool
	users *repository.UserRepository
	eco   config.Economy
}

func NewReconcileService(db *pgxpool.Pool, eco config.Economy) *ReconcileService {
	return &ReconcileService{
		db:    db,
		users: repository.NewUserRepository(db),
		eco:   eco,
	}
}

// Sync reconciles by internal user id and returns the fresh snapshot source.
// Calling it twice with no intervening action yields the same state.
func (s *ReconcileService) Sync(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.reconcile(ctx, u)
}

// SyncByTgID is Sync keyed by the external Telegram id.
func (s *ReconcileService) SyncByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	u, err := s.users.GetByTgID(ctx, tgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.reconcile(ctx, u)
}

func (s *ReconcileService) reconcile(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := clock.NowUTC()

	if res := economy.Regenerate(u.Energy, u.MaxEnergy, u.RefillSeconds, u.LastEnergyUpdate, now); res.Changed {
		// Guarded by the old checkpoint: if a concurrent request already
		// persisted a regen, this write affects zero rows and the other
		// request's math stands. Either way the in-memory view is a
		// consistent reading of (checkpoint, elapsed).
		if err := s.users.PersistEnergy(ctx, u.ID, res.Energy, res.Checkpoint, u.LastEnergyUpdate); err != nil {
			return nil, err
		}
		u.Energy = res.Energy
		u.LastEnergyUpdate = res.Checkpoint
	}

	today := clock.DateOf(now)

	if economy.ShouldReset(u.LastTapReset, now) {
		if err := s.users.ResetDailyTaps(ctx, u.ID, today); err != nil {
			return nil, err
		}
		u.DailyTaps = 0
		u.LastTapReset = today
	}
	if economy.ShouldReset(u.LastAdReset, now) {
		if err := s.users.ResetDailyAds(ctx, u.ID, today); err != nil {
			return nil, err
		}
		u.DailyAds = 0
		u.LastAdReset = today
	}
	if economy.ShouldReset(u.LastTaskReset, now) {
		if err := s.users.ResetDailyTasks(ctx, u.ID, today); err != nil {
			return nil, err
		}
		u.DailyTasks = 0
		u.LastTaskReset = today
	}

	logger.Debug("user reconciled", "user_id", u.ID, "energy", u.Energy, "daily_taps", u.DailyTaps)
	return u, nil
}

// Limits returns the configured maxima for snapshot building.
func (s *ReconcileService) Limits() domain.SnapshotLimits {
	return domain.SnapshotLimits{
		MaxDailyTaps: s.eco.MaxDailyTaps,
		MaxDailyAds:  s.eco.MaxDailyAds,
		AdCooldown:   time.Duration(s.eco.AdCooldownSecs) * time.Second,
	}
}
