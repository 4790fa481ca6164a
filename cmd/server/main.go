package main

import (
	"log"
	"socialcare365/config"
	"socialcare365/db"
	"socialcare365/handlers"
	"socialcare365/middleware"
	"socialcare365/models"
	"socialcare365/services"
	"socialcare365/services/jobs"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	err := db.Initialize(db.Options{
		Path:           cfg.DBPath,
		Environment:    cfg.Environment,
		TursoURL:       cfg.TursoDatabaseURL,
		TursoAuthToken: cfg.TursoAuthToken,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Attachments go to R2 when configured, local disk otherwise
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// Room for a 10MB attachment plus multipart framing
	e.Use(echomiddleware.BodyLimit("12M"))

	// Make config available to handlers
	e.Use(middleware.WithConfig(cfg))

	// Static files (local storage only)
	if services.Storage.IsLocal() {
		e.Static("/uploads", cfg.UploadDir)
	}

	handlers.RegisterRoutes(e)

	// Start background jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for now := range ticker.C {
			jobs.SendMeetingReminders(db.DB, cfg, now)
			services.Monitor.Prune()
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
