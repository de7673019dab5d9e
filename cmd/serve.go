package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/motocare/motocare/internal/account"
	"github.com/motocare/motocare/internal/api"
	"github.com/motocare/motocare/internal/config"
	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/engine"
	"github.com/motocare/motocare/internal/garage"
	"github.com/motocare/motocare/internal/locator"
	"github.com/motocare/motocare/internal/notify/email"
	"github.com/motocare/motocare/internal/photos"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MotoCare server",
	Long:  `Start the MotoCare server to handle garage management requests and send service reminders.`,
	Example: `motocare serve --config config.yml
motocare serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	photoStore, err := photos.NewStore(cfg.Photos.Dir, cfg.Photos.ThumbnailWidth, cfg.Photos.ThumbnailHeight, cfg.Photos.Quality)
	if err != nil {
		log.Fatalf("failed to initialize photo store: %v", err)
	}

	emailService := email.New(cfg.Email)
	accounts := account.New(db, emailService, photoStore)
	garageService := garage.New(db, photoStore)
	locatorClient := locator.NewSimulatedClient(cfg.Locator)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eng, err := engine.New(cfg, db, emailService)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	server, err := api.New(cfg, accounts, garageService, eng, locatorClient, photoStore)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	// Start the engine in a goroutine
	go func() {
		if err := eng.Run(ctx); err != nil {
			log.Error("engine error", "error", err)
		}
	}()

	// Start the API server in a goroutine
	go func() {
		log.Info("starting API server", "listen", cfg.Listen)
		if err := server.Run(ctx); err != nil {
			log.Error("API server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	log.Info("motocare started successfully")
	<-c
	log.Info("shutting down gracefully...")

	// Give time for graceful shutdown
	cancel()
	time.Sleep(2 * time.Second)

	if err := eng.Close(); err != nil {
		log.Error("failed to stop engine", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Error("failed to close database", "error", err)
	}
}
