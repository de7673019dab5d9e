// Package api wires the JSON API on top of the domain services.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/motocare/motocare/internal/account"
	"github.com/motocare/motocare/internal/api/auth"
	"github.com/motocare/motocare/internal/api/cache"
	"github.com/motocare/motocare/internal/api/handler"
	"github.com/motocare/motocare/internal/config"
	"github.com/motocare/motocare/internal/engine"
	"github.com/motocare/motocare/internal/garage"
	"github.com/motocare/motocare/internal/locator"
	"github.com/motocare/motocare/internal/photos"
)

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	httpServer   *http.Server
	handler      *handler.Handler
	cacheManager *cache.Manager
}

func New(
	cfg *config.Config,
	accounts *account.Service,
	garageService *garage.Service,
	eng *engine.Engine,
	locatorClient locator.Searcher,
	photoStore *photos.Store,
) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	cacheManager := cache.NewManager()
	h := handler.New(cfg, accounts, garageService, eng, locatorClient, photoStore, cacheManager)

	return &Server{
		cfg:          cfg,
		ginEngine:    gin.Default(),
		handler:      h,
		cacheManager: cacheManager,
	}, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions("motocare_session", store))
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.setupSession()

	api := s.ginEngine.Group("/api")

	api.POST("/auth/register", s.handler.Register)
	api.POST("/auth/login", s.handler.Login)
	api.POST("/auth/logout", s.handler.Logout)

	protected := api.Group("/")
	protected.Use(auth.RequireAuth())

	protected.GET("/me", s.handler.Me)

	protected.GET("/vehicles", s.handler.ListVehicles)
	protected.POST("/vehicles", s.handler.CreateVehicle)
	protected.GET("/vehicles/:id", s.handler.GetVehicle)
	protected.PUT("/vehicles/:id/odometer", s.handler.UpdateOdometer)
	protected.DELETE("/vehicles/:id", s.handler.DeleteVehicle)

	protected.GET("/vehicles/:id/services", s.handler.ServiceHistory)
	protected.POST("/vehicles/:id/services", s.handler.LogService)
	protected.GET("/vehicles/:id/costs", s.handler.ServiceCosts)
	protected.GET("/vehicles/:id/schedule", s.handler.GetSchedule)
	protected.PUT("/vehicles/:id/schedule", s.handler.UpdateSchedule)
	protected.DELETE("/services/:id", s.handler.DeleteServiceRecord)

	protected.GET("/reminders", s.handler.Reminders)
	protected.GET("/workshops/search", s.handler.SearchWorkshops)
	protected.GET("/photos/:key", s.handler.ServePhoto)
}

func (s *Server) setupAdminRoutes() {
	adminGroup := s.ginEngine.Group("/api/admin")
	adminGroup.Use(auth.RequireAuth(), auth.RequireAdmin())

	adminGroup.GET("/users", s.handler.AdminListUsers)
	adminGroup.POST("/users", s.handler.AdminCreateAdmin)
	adminGroup.PUT("/users/:id/role", s.handler.AdminToggleRole)
	adminGroup.DELETE("/users/:id", s.handler.AdminDeleteUser)
	adminGroup.GET("/stats", s.handler.AdminStats)
	adminGroup.GET("/jobs", s.handler.AdminJobs)
	adminGroup.POST("/jobs/reminders/run", s.handler.AdminRunReminders)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.setupRoutes()
	s.setupAdminRoutes()

	s.httpServer = &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.ginEngine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.httpServer.Shutdown(context.Background())
	}
}
