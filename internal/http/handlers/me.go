package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the authoritative user snapshot after full reconciliation.
// This is the sync endpoint the client calls on focus and after errors.
func (h *Handler) Me(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.snapshot(u),
	})
}
