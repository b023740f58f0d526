package http

import (
	"os"
	"strconv"
	"time"

	"tapearn_webapp/internal/config"
	"tapearn_webapp/internal/http/handlers"
	"tapearn_webapp/internal/http/middleware"
	"tapearn_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, cfg)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := envIntDefault("API_RATE_LIMIT", 60)
	apiRateWindow := envWindowDefault("API_RATE_WINDOW_SECONDS", time.Minute)
	authRateLimit := envIntDefault("AUTH_RATE_LIMIT", 5)
	authRateWindow := envWindowDefault("AUTH_RATE_WINDOW_SECONDS", time.Minute)

	// Earning actions get a tighter per-user limiter: taps arrive in bursts,
	// everything else should not.
	actionRateLimit := envIntDefault("ACTION_RATE_LIMIT", 120)
	actionRateWindow := envWindowDefault("ACTION_RATE_WINDOW_SECONDS", time.Minute)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, authRateLimit, authRateWindow, actionRateLimit, actionRateWindow)

	// Legacy /api routes (kept for old clients)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, authRateLimit, authRateWindow, actionRateLimit, actionRateWindow)

	// WebSocket snapshot sync (token via query)
	syncHandler := ws.NewSyncHandler(h.Reconcile)
	r.GET("/ws", middleware.JWT(), syncHandler.Serve)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration, actionRateLimit int, actionRateWindow time.Duration) {
	// Init / auth
	api.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// Authoritative snapshot
	api.GET("/me", middleware.JWT(), h.Me)

	actionRL := middleware.ActionRateLimit(actionRateLimit, actionRateWindow)

	// Earning actions
	api.POST("/tap", middleware.JWT(), actionRL, h.Tap)
	api.POST("/ads/watched", middleware.JWT(), actionRL, h.WatchAd)

	// Tasks
	api.GET("/tasks", middleware.JWT(), h.ListTasks)
	api.POST("/tasks/:id/complete", middleware.JWT(), actionRL, h.CompleteTask)

	// Withdrawals
	api.POST("/withdrawals", middleware.JWT(), h.RequestWithdrawal)
	api.GET("/withdrawals", middleware.JWT(), h.ListWithdrawals)

	// Referral system
	referral := api.Group("/referral")
	referral.Use(middleware.JWT())
	{
		referral.GET("/link", h.GetReferralLink)
		referral.GET("/stats", h.GetReferralStats)
	}
}

func envIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envWindowDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
