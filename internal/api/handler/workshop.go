package handler

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// SearchWorkshops finds repair workshops near a free-text location.
func (h *Handler) SearchWorkshops(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
		return
	}

	radius := 0
	if r := c.Query("radius"); r != "" {
		parsed, err := strconv.Atoi(r)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
		radius = parsed
	}

	workshops, err := h.locator.Search(c.Request.Context(), location, radius)
	if err != nil {
		log.Error("Workshop search failed", "location", location, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "workshop search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":  location,
		"workshops": workshops,
	})
}
