package handlers

import (
	"net/http"

	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// WatchAd credits one rewarded ad view, gated by the daily limit and the
// per-ad cooldown. The client reports completion; there is nothing to trust
// in the request body, so eligibility is decided entirely server-side.
func (h *Handler) WatchAd(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	if err := h.Reward.WatchAd(c.Request.Context(), u); err != nil {
		if service.IsRejection(err) {
			h.rejected(c, u, err)
			return
		}
		infraError(c, "ad reward failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"points_earned": h.Eco.AdRewardPoints,
		"data":          h.snapshot(u),
	})
}
