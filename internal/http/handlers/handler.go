package handlers

import (
	"net/http"

	"tapearn_webapp/internal/clock"
	"tapearn_webapp/internal/config"
	"tapearn_webapp/internal/domain"
	"tapearn_webapp/internal/logger"
	"tapearn_webapp/internal/repository"
	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	BotToken    string
	BotUsername string
	Eco         config.Economy

	Reconcile *service.ReconcileService
	Reward    *service.RewardService
	Account   *service.AccountService

	Tasks       *repository.TaskRepository
	Withdrawals *repository.WithdrawalRepository
	Ledger      *repository.LedgerRepository
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config) *Handler {
	return &Handler{
		DB:          db,
		BotToken:    cfg.BotToken,
		BotUsername: cfg.BotUsername,
		Eco:         cfg.Economy,
		Reconcile:   service.NewReconcileService(db, cfg.Economy),
		Reward:      service.NewRewardService(db, cfg.Economy),
		Account:     service.NewAccountService(db, cfg.Economy),
		Tasks:       repository.NewTaskRepository(db),
		Withdrawals: repository.NewWithdrawalRepository(db),
		Ledger:      repository.NewLedgerRepository(db),
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func (h *Handler) snapshot(u *domain.User) domain.UserSnapshot {
	return u.Snapshot(clock.NowUTC(), h.Reconcile.Limits())
}

// rejected answers a business-rule rejection: HTTP 200, success false, the
// message and the current snapshot so the client can resync.
func (h *Handler) rejected(c *gin.Context, u *domain.User, err error) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": err.Error(),
		"data":    h.snapshot(u),
	})
}

// infraError logs the real error and answers with a generic message.
func infraError(c *gin.Context, what string, err error) {
	logger.Error(what, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "server error, please try again later",
	})
}

// loadUser reconciles the authenticated user or writes the error response.
func (h *Handler) loadUser(c *gin.Context) (*domain.User, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}

	u, err := h.Reconcile.Sync(c.Request.Context(), userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found, reinitialize"})
			return nil, false
		}
		infraError(c, "reconcile failed", err)
		return nil, false
	}
	return u, true
}
