package service

import (
	"context"
	"errors"

	"tapearn_webapp/internal/clock"
	"tapearn_webapp/internal/config"
	"tapearn_webapp/internal/domain"
	"tapearn_webapp/internal/logger"
	"tapearn_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountService owns user creation. Init is idempotent: the first call for a
// Telegram id creates the row and settles the referral bonus; every later
// call returns the existing row untouched.
type AccountService struct {
	db     *pgxpool.Pool
	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	eco    config.Economy
}

func NewAccountService(db *pgxpool.Pool, eco config.Economy) *AccountService {
	return &AccountService{
		db:     db,
		users:  repository.NewUserRepository(db),
		ledger: repository.NewLedgerRepository(db),
		eco:    eco,
	}
}

// Init finds or creates the user for a Telegram identity. startParam is the
// referrer's referral code from the deep link; it only matters on the call
// that actually creates the row, which is what makes the bonus grant-once.
func (s *AccountService) Init(ctx context.Context, tgID int64, username, firstName, startParam string) (*domain.User, bool, error) {
	existing, err := s.users.GetByTgID(ctx, tgID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Referrer lookup happens before the tx; a deleted or bogus code just
	// means no bonus, never a failed init.
	var referrer *domain.User
	if startParam != "" {
		if ref, err := s.users.GetByReferralCode(ctx, startParam); err == nil && ref.TgID != tgID {
			referrer = ref
		}
	}

	u := &domain.User{
		TgID:             tgID,
		Username:         username,
		FirstName:        firstName,
		ReferralCode:     repository.GenerateReferralCode(),
		Energy:           s.eco.MaxEnergy,
		MaxEnergy:        s.eco.MaxEnergy,
		EnergyPerTap:     s.eco.EnergyPerTap,
		PointsPerTap:     s.eco.PointsPerTap,
		RefillSeconds:    s.eco.RefillSeconds,
		LastEnergyUpdate: clock.NowUTC(),
	}
	if referrer != nil {
		u.ReferredBy = &referrer.ID
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.users.CreateTx(ctx, tx, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the insert race to a concurrent init for the same id.
			// The other request owns the creation (and the bonus); just
			// return what it made.
			existing, err := s.users.GetByTgID(ctx, tgID)
			return existing, false, err
		}
		return nil, false, err
	}

	if referrer != nil {
		if err := s.users.GrantReferralBonusTx(ctx, tx, referrer.ID, s.eco.ReferralBonus); err != nil {
			return nil, false, err
		}
		if err := s.ledger.CreateTx(ctx, tx, &domain.LedgerEntry{
			UserID: referrer.ID,
			Type:   domain.LedgerReferralBonus,
			Amount: s.eco.ReferralBonus,
			Meta:   map[string]interface{}{"referred_tg_id": tgID},
		}); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	if referrer != nil {
		RewardsGranted.WithLabelValues("referral").Inc()
		PointsEarned.WithLabelValues("referral").Add(float64(s.eco.ReferralBonus))
		logger.Info("referral bonus granted", "referrer_id", referrer.ID, "referred_tg_id", tgID)
	}
	logger.Info("user created", "tg_id", tgID)
	return u, true, nil
}
