package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tapearn_webapp/internal/config"
	"tapearn_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEconomy() config.Economy {
	return config.Economy{
		PointsPerTap:    1,
		EnergyPerTap:    1,
		MaxEnergy:       100,
		RefillSeconds:   30,
		MaxDailyTaps:    2500,
		MaxTapBatch:     20,
		AdRewardPoints:  40,
		MaxDailyAds:     45,
		AdCooldownSecs:  180,
		ReferralBonus:   20,
		WithdrawalTiers: []int64{85000, 160000, 300000},
		PayoutMethods:   []string{"UPI", "Binance"},
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	require.NoError(t, err)
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		require.NoError(t, err)
		_, err = db.Exec(context.Background(), string(b))
		require.NoError(t, err, "apply migration %s", f.Name())
	}
}

// freshTgID returns a Telegram id unlikely to collide across test runs.
func freshTgID() int64 {
	return time.Now().UnixNano() % 1_000_000_000_000
}

func TestInit_IdempotentAndReferralGrantOnce(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	eco := testEconomy()

	accounts := service.NewAccountService(db, eco)
	reconcile := service.NewReconcileService(db, eco)

	refTgID := freshTgID()
	referrer, created, err := accounts.Init(ctx, refTgID, "ref", "Ref", "")
	require.NoError(t, err)
	require.True(t, created)

	// referee joins via the referrer's code
	refereeTgID := refTgID + 1
	_, created, err = accounts.Init(ctx, refereeTgID, "new", "New", referrer.ReferralCode)
	require.NoError(t, err)
	require.True(t, created)

	got, err := reconcile.Sync(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, eco.ReferralBonus, got.Points)
	assert.Equal(t, 1, got.TotalReferrals)

	// repeat init of the referee must not re-grant
	_, created, err = accounts.Init(ctx, refereeTgID, "new", "New", referrer.ReferralCode)
	require.NoError(t, err)
	assert.False(t, created)

	got, err = reconcile.Sync(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, eco.ReferralBonus, got.Points)
	assert.Equal(t, 1, got.TotalReferrals)
}

func TestTapFlow_ThenOverdraftWithdrawalRejected(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	eco := testEconomy()

	accounts := service.NewAccountService(db, eco)
	reconcile := service.NewReconcileService(db, eco)
	rewards := service.NewRewardService(db, eco)

	u, _, err := accounts.Init(ctx, freshTgID(), "tapper", "Tap", "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		u, err = reconcile.Sync(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, rewards.Tap(ctx, u, 1))
	}

	u, err = reconcile.Sync(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.Points)
	assert.Equal(t, 95, u.Energy)
	assert.Equal(t, 5, u.DailyTaps)

	// withdrawal beyond the balance must be rejected with no deduction
	_, err = rewards.RequestWithdrawal(ctx, u, 85000, "UPI", "someone@upi")
	assert.ErrorIs(t, err, service.ErrInsufficientPoints)

	u, err = reconcile.Sync(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.Points)
}

func TestWithdrawal_ConcurrentFirstWins(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	eco := testEconomy()

	accounts := service.NewAccountService(db, eco)
	reconcile := service.NewReconcileService(db, eco)
	rewards := service.NewRewardService(db, eco)

	u, _, err := accounts.Init(ctx, freshTgID(), "racer", "Race", "")
	require.NoError(t, err)

	// exactly enough for one tier
	_, err = db.Exec(ctx, `UPDATE users SET points = 85000 WHERE id = $1`, u.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// each request reconciles its own snapshot, like real traffic
			su, err := reconcile.Sync(ctx, u.ID)
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = rewards.RequestWithdrawal(ctx, su, 85000, "UPI", fmt.Sprintf("racer-%d@upi", i))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, service.ErrInsufficientPoints)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent withdrawal may win")

	u, err = reconcile.Sync(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.Points)
}

func TestCompleteTask_DuplicateRejectedSameDay(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	eco := testEconomy()

	accounts := service.NewAccountService(db, eco)
	reconcile := service.NewReconcileService(db, eco)
	rewards := service.NewRewardService(db, eco)

	u, _, err := accounts.Init(ctx, freshTgID(), "worker", "Work", "")
	require.NoError(t, err)

	var taskID int64
	title := fmt.Sprintf("integration task %d", u.TgID)
	err = db.QueryRow(ctx,
		`INSERT INTO tasks (title, link, reward, recurring) VALUES ($1, '', 50, true) RETURNING id`,
		title,
	).Scan(&taskID)
	require.NoError(t, err)

	require.NoError(t, rewards.CompleteTask(ctx, u, taskID))

	u, err = reconcile.Sync(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), u.Points)
	assert.Equal(t, 1, u.DailyTasks)

	err = rewards.CompleteTask(ctx, u, taskID)
	assert.ErrorIs(t, err, service.ErrTaskAlreadyCompleted)

	u, err = reconcile.Sync(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), u.Points, "no point change on duplicate completion")
}

func TestWatchAd_CooldownEnforced(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	eco := testEconomy()

	accounts := service.NewAccountService(db, eco)
	reconcile := service.NewReconcileService(db, eco)
	rewards := service.NewRewardService(db, eco)

	u, _, err := accounts.Init(ctx, freshTgID(), "viewer", "View", "")
	require.NoError(t, err)

	require.NoError(t, rewards.WatchAd(ctx, u))
	assert.Equal(t, eco.AdRewardPoints, u.Points)
	assert.Equal(t, 1, u.DailyAds)

	// immediate second claim hits the cooldown
	u, err = reconcile.Sync(ctx, u.ID)
	require.NoError(t, err)
	err = rewards.WatchAd(ctx, u)
	assert.ErrorIs(t, err, service.ErrAdCooldown)
}
