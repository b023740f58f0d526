package handlers

import (
	"fmt"
	"net/http"

	"tapearn_webapp/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetReferralLink returns the caller's referral code and deep link.
func (h *Handler) GetReferralLink(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"code":    u.ReferralCode,
		"link":    fmt.Sprintf("https://t.me/%s?start=%s", h.BotUsername, u.ReferralCode),
	})
}

// GetReferralStats reports verified referrals and lifetime referral earnings.
func (h *Handler) GetReferralStats(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	earned, err := h.Ledger.SumByType(c.Request.Context(), u.ID, domain.LedgerReferralBonus)
	if err != nil {
		infraError(c, "referral stats failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"total_referrals": u.TotalReferrals,
		"total_earned":    earned,
	})
}
