package handlers

import (
	"net/http"
	"strings"

	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type WithdrawalRequest struct {
	Amount  int64  `json:"amount" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Details string `json:"details" binding:"required"`
}

// RequestWithdrawal deducts points and records a pending payout request.
// Fulfillment is manual back-office work; the app only guarantees that the
// deduction and the record commit together.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount, method and details are required"})
		return
	}

	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	w, err := h.Reward.RequestWithdrawal(c.Request.Context(), u, req.Amount, strings.TrimSpace(req.Method), strings.TrimSpace(req.Details))
	if err != nil {
		if service.IsRejection(err) {
			h.rejected(c, u, err)
			return
		}
		infraError(c, "withdrawal failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reference": w.Reference,
		"status":    w.Status,
		"data":      h.snapshot(u),
	})
}

// ListWithdrawals returns the caller's withdrawal history.
func (h *Handler) ListWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	withdrawals, err := h.Withdrawals.GetByUserID(c.Request.Context(), userID, 50)
	if err != nil {
		infraError(c, "list withdrawals failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"withdrawals": withdrawals,
	})
}
