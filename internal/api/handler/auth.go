package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/account"
	"github.com/motocare/motocare/internal/api/auth"
	"github.com/motocare/motocare/internal/api/models"
	"github.com/motocare/motocare/internal/database"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, emailSent, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		log.Error("Failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		log.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         models.ToUser(user, h.cfg.Gravatar),
		"welcomeEmail": emailSent,
	})
}

// Login authenticates and starts a session.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		log.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.ToUser(user, h.cfg.Gravatar)})
}

// Logout clears the session.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Error("Failed to clear session", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the logged-in account.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.accounts.GetUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, models.ToUser(user, h.cfg.Gravatar))
}

func (h *Handler) startSession(c *gin.Context, user *database.User) error {
	session := sessions.Default(c)
	session.Set(auth.SessionUserID, user.ID)
	session.Set(auth.SessionUsername, user.Username)
	session.Set(auth.SessionEmail, user.Email)
	session.Set(auth.SessionIsAdmin, user.IsAdmin)
	return session.Save()
}
