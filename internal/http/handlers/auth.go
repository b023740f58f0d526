package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData   string `json:"init_data" binding:"required"`
	StartParam string `json:"start_param"`
}

// Auth initializes the user: validates the Telegram identity, creates the
// account on first contact (applying the referral from start_param), and
// returns a session token with the authoritative snapshot. Idempotent — a
// repeat call returns the existing account and never re-grants the bonus.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	tgID, username, firstName, startParam, ok := h.identify(c, req)
	if !ok {
		return
	}
	if startParam == "" {
		startParam = req.StartParam
	}

	ctx := c.Request.Context()

	user, _, err := h.Account.Init(ctx, tgID, username, firstName, startParam)
	if err != nil {
		infraError(c, "user init failed", err)
		return
	}

	// Reconcile even for a brand-new user so the reply is idempotent with a
	// later /me.
	user, err = h.Reconcile.Sync(ctx, user.ID)
	if err != nil {
		infraError(c, "reconcile failed", err)
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		infraError(c, "token generation failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"data":    h.snapshot(user),
	})
}

// identify extracts the Telegram identity from init_data. In DEV_MODE the
// HMAC check is skipped and the id is parsed leniently for local work.
func (h *Handler) identify(c *gin.Context, req AuthRequest) (tgID int64, username, firstName, startParam string, ok bool) {
	if os.Getenv("DEV_MODE") == "true" {
		tgID = int64(12345)
		if strings.Contains(req.InitData, "\"id\":") {
			start := strings.Index(req.InitData, "\"id\":") + 5
			end := start
			for end < len(req.InitData) && req.InitData[end] >= '0' && req.InitData[end] <= '9' {
				end++
			}
			if parsed, err := strconv.ParseInt(req.InitData[start:end], 10, 64); err == nil {
				tgID = parsed
			}
		}
		return tgID, fmt.Sprintf("testuser%d", tgID), "Test", "", true
	}

	if len(req.InitData) > 4096 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data too long"})
		return 0, "", "", "", false
	}

	values, valid := service.ValidateTelegramInitData(req.InitData, h.BotToken)
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or stale telegram data"})
		return 0, "", "", "", false
	}

	userRaw := values.Get("user")
	if userRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return 0, "", "", "", false
	}

	userValues, _ := url.ParseQuery("user=" + userRaw)
	userJSON := userValues.Get("user")

	var tgUser struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	}
	if err := json.Unmarshal([]byte(userJSON), &tgUser); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user json"})
		return 0, "", "", "", false
	}

	return tgUser.ID, tgUser.Username, tgUser.FirstName, values.Get("start_param"), true
}
