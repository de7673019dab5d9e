package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/account"
	"github.com/motocare/motocare/internal/api/models"
)

type createAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AdminListUsers returns every account.
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		log.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, models.ToUsers(users, h.cfg.Gravatar))
}

// AdminCreateAdmin creates a new administrator account.
func (h *Handler) AdminCreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.CreateAdmin(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAdminLimitReached):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			log.Error("Failed to create admin", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create admin"})
		}
		return
	}

	c.JSON(http.StatusCreated, models.ToUser(user, h.cfg.Gravatar))
}

// AdminToggleRole flips the admin flag on another account.
func (h *Handler) AdminToggleRole(c *gin.Context) {
	targetID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	user, err := h.accounts.ToggleAdmin(c.Request.Context(), currentUser(c).ID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrForbiddenSelfAction):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrAdminLimitReached):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			log.Error("Failed to toggle role", "target", targetID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle role"})
		}
		return
	}

	c.JSON(http.StatusOK, models.ToUser(user, h.cfg.Gravatar))
}

// AdminDeleteUser removes an account with everything it owns.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	targetID, err := parseUintParam(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	if !requireConfirm(c) {
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), currentUser(c).ID, targetID); err != nil {
		switch {
		case errors.Is(err, account.ErrForbiddenSelfAction):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, account.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			log.Error("Failed to delete user", "target", targetID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		}
		return
	}

	h.cacheManager.ClearReminders(targetID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminStats summarizes the instance.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.accounts.Stats(c.Request.Context())
	if err != nil {
		log.Error("Failed to load stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminJobs lists the background jobs with their run statistics.
func (h *Handler) AdminJobs(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetScheduler().GetJobs())
}

// AdminRunReminders triggers the reminder digest outside its schedule.
func (h *Handler) AdminRunReminders(c *gin.Context) {
	if err := h.engine.RunReminderNow(); err != nil {
		log.Error("Failed to trigger reminder job", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to trigger reminder job"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
