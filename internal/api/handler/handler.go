// Package handler implements the HTTP handlers of the JSON API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/account"
	"github.com/motocare/motocare/internal/api/cache"
	"github.com/motocare/motocare/internal/api/models"
	"github.com/motocare/motocare/internal/config"
	"github.com/motocare/motocare/internal/engine"
	"github.com/motocare/motocare/internal/garage"
	"github.com/motocare/motocare/internal/locator"
	"github.com/motocare/motocare/internal/photos"
)

// ConfirmParamTrue is the query value that confirms a destructive call.
const ConfirmParamTrue = "true"

type Handler struct {
	cfg          *config.Config
	accounts     *account.Service
	garage       *garage.Service
	engine       *engine.Engine
	locator      locator.Searcher
	photos       *photos.Store
	cacheManager *cache.Manager
}

func New(
	cfg *config.Config,
	accounts *account.Service,
	garageService *garage.Service,
	eng *engine.Engine,
	locatorClient locator.Searcher,
	photoStore *photos.Store,
	cacheManager *cache.Manager,
) *Handler {
	return &Handler{
		cfg:          cfg,
		accounts:     accounts,
		garage:       garageService,
		engine:       eng,
		locator:      locatorClient,
		photos:       photoStore,
		cacheManager: cacheManager,
	}
}

func parseUintParam(value string) (uint, error) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.ToUint(parsed)
}

// currentUser returns the session identity loaded by RequireAuth.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

// requireConfirm enforces the two-step flow on destructive endpoints.
// The first call is answered with a challenge, the retry must carry
// confirm=true.
func requireConfirm(c *gin.Context) bool {
	if c.Query("confirm") == ConfirmParamTrue {
		return true
	}
	c.JSON(http.StatusPreconditionRequired, gin.H{
		"error":   "confirmation required",
		"confirm": false,
	})
	return false
}
