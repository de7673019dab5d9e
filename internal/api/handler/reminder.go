package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/api/models"
)

// Reminders returns the computed due state for all of the caller's
// vehicles. Results are cached briefly, ?refresh=true forces a
// recompute.
func (h *Handler) Reminders(c *gin.Context) {
	user := currentUser(c)

	forceRefresh := c.Query("refresh") == "true"
	if !forceRefresh {
		if overview, found := h.cacheManager.GetReminders(user.ID); found {
			c.JSON(http.StatusOK, overview)
			return
		}
	}

	reminders, needsAttention, err := h.engine.VehicleStatuses(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("Failed to compute reminders", "user", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reminders"})
		return
	}

	overview := models.ToReminderOverview(reminders, needsAttention)
	h.cacheManager.SetReminders(user.ID, &overview)
	c.JSON(http.StatusOK, overview)
}
