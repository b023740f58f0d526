package config

import (
	"os"
	"strconv"
	"strings"

	"tapearn_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	BotUsername string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Economy Economy
}

// Economy holds the tuning knobs of the earning loop. Defaults match the
// values the game shipped with; every one can be overridden via env.
type Economy struct {
	PointsPerTap    int64
	EnergyPerTap    int
	MaxEnergy       int
	RefillSeconds   int // seconds per 1 energy unit
	MaxDailyTaps    int
	MaxTapBatch     int
	AdRewardPoints  int64
	MaxDailyAds     int
	AdCooldownSecs  int
	ReferralBonus   int64
	WithdrawalTiers []int64
	PayoutMethods   []string
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" && os.Getenv("DEV_MODE") != "true" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = "WatchClickEarn_bot" // ! если не установлено в env !
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		BotToken:      botToken,
		BotUsername:   botUsername,
		JWTSecret:     jwtSecret,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		Economy:       loadEconomy(),
	}
}

func loadEconomy() Economy {
	e := Economy{
		PointsPerTap:    1,
		EnergyPerTap:    1,
		MaxEnergy:       100,
		RefillSeconds:   30,
		MaxDailyTaps:    2500,
		MaxTapBatch:     20,
		AdRewardPoints:  40,
		MaxDailyAds:     45,
		AdCooldownSecs:  180, // 3 минуты между рекламами
		ReferralBonus:   20,
		WithdrawalTiers: []int64{85000, 160000, 300000},
		PayoutMethods:   []string{"UPI", "Binance"},
	}

	e.PointsPerTap = envInt64("POINTS_PER_TAP", e.PointsPerTap)
	e.EnergyPerTap = envInt("ENERGY_PER_TAP", e.EnergyPerTap)
	e.MaxEnergy = envInt("MAX_ENERGY", e.MaxEnergy)
	e.RefillSeconds = envInt("ENERGY_REFILL_SECONDS", e.RefillSeconds)
	e.MaxDailyTaps = envInt("MAX_DAILY_TAPS", e.MaxDailyTaps)
	e.MaxTapBatch = envInt("MAX_TAP_BATCH", e.MaxTapBatch)
	e.AdRewardPoints = envInt64("AD_REWARD_POINTS", e.AdRewardPoints)
	e.MaxDailyAds = envInt("MAX_DAILY_ADS", e.MaxDailyAds)
	e.AdCooldownSecs = envInt("AD_COOLDOWN_SECONDS", e.AdCooldownSecs)
	e.ReferralBonus = envInt64("REFERRAL_BONUS_POINTS", e.ReferralBonus)

	if v := os.Getenv("WITHDRAWAL_TIERS"); v != "" {
		var tiers []int64
		for _, s := range strings.Split(v, ",") {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && n > 0 {
				tiers = append(tiers, n)
			}
		}
		if len(tiers) > 0 {
			e.WithdrawalTiers = tiers
		}
	}
	if v := os.Getenv("PAYOUT_METHODS"); v != "" {
		var methods []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				methods = append(methods, s)
			}
		}
		if len(methods) > 0 {
			e.PayoutMethods = methods
		}
	}

	return e
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
