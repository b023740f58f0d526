package handlers

import (
	"net/http"

	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type TapRequest struct {
	// Number of taps in this batch; defaults to 1.
	Count int `json:"count"`
}

// Tap commits a tap batch: points up, energy down, daily counter up.
func (h *Handler) Tap(c *gin.Context) {
	var req TapRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
	}
	if req.Count == 0 {
		req.Count = 1
	}

	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	if err := h.Reward.Tap(c.Request.Context(), u, req.Count); err != nil {
		if service.IsRejection(err) {
			h.rejected(c, u, err)
			return
		}
		infraError(c, "tap failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"points_earned": int64(req.Count) * u.PointsPerTap,
		"data":          h.snapshot(u),
	})
}
