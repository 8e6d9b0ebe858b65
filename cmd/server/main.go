package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"theraplay/internal/config"
	"theraplay/internal/database"
	"theraplay/internal/gamesource"
	"theraplay/internal/handlers"
	"theraplay/internal/metrics"
	"theraplay/internal/models"
	"theraplay/internal/repository"
	"theraplay/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// One adapter per upstream game service, each behind its own breaker
	sources := []service.SessionSource{
		gamesource.New(models.GameTypeGesture, cfg.GestureServiceURL, cfg.SourceTimeout),
		gamesource.New(models.GameTypeGaze, cfg.GazeServiceURL, cfg.SourceTimeout),
		gamesource.New(models.GameTypeDance, cfg.DanceServiceURL, cfg.SourceTimeout),
		gamesource.New(models.GameTypeMirror, cfg.MirrorServiceURL, cfg.SourceTimeout),
		gamesource.New(models.GameTypeRepeat, cfg.RepeatServiceURL, cfg.SourceTimeout),
	}

	// Initialize repositories
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.SESNotifyEmail, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	aggregatorService := service.NewAggregatorService(sources...)
	engagementService := service.NewEngagementService(aggregatorService)
	reportService := service.NewReportService(reportRepo, aggregatorService, emailService)

	// Initialize handlers
	middleware := handlers.NewMiddleware(cfg.TokenSigningKey)
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	reportHandler := handlers.NewReportHandler(reportService)

	mux := http.NewServeMux()

	// Operational routes
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Engagement routes
	mux.HandleFunc("GET /children/{childId}/engagement", middleware.RequireActor(engagementHandler.GetChildEngagement))

	// Report routes
	mux.HandleFunc("POST /reports", middleware.RequireActor(middleware.RateLimit(reportHandler.CreateReport)))
	mux.HandleFunc("POST /reports/{id}/respond", middleware.RequireActor(reportHandler.RespondToReport))
	mux.HandleFunc("GET /children/{childId}/reports", middleware.RequireActor(reportHandler.GetChildReports))
	mux.HandleFunc("GET /doctor/reports", middleware.RequireActor(reportHandler.GetDoctorReports))
	mux.HandleFunc("GET /doctor/reports/pending-count", middleware.RequireActor(reportHandler.GetPendingCount))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
