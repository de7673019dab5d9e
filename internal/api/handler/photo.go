package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ServePhoto streams a stored receipt photo, ?thumb=true serves the
// thumbnail instead.
func (h *Handler) ServePhoto(c *gin.Context) {
	key := c.Param("key")

	path := h.photos.Path(key)
	if c.Query("thumb") == "true" {
		path = h.photos.ThumbPath(key)
	}
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo key"})
		return
	}

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
