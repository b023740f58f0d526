package handlers

import (
	"net/http"
	"strconv"

	"tapearn_webapp/internal/clock"
	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTasks returns the active catalog with the caller's completion flags.
func (h *Handler) ListTasks(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListForUser(c.Request.Context(), u.ID, clock.TodayUTC())
	if err != nil {
		infraError(c, "list tasks failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"data":    h.snapshot(u),
	})
}

// CompleteTask credits the task reward once per task (per day for recurring).
func (h *Handler) CompleteTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	u, ok := h.loadUser(c)
	if !ok {
		return
	}

	if err := h.Reward.CompleteTask(c.Request.Context(), u, taskID); err != nil {
		if service.IsRejection(err) {
			h.rejected(c, u, err)
			return
		}
		infraError(c, "task completion failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.snapshot(u),
	})
}
