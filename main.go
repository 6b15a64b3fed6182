package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/api"
	"github.com/nmoreau/argus-soc/internal/config"
	"github.com/nmoreau/argus-soc/internal/database"
	"github.com/nmoreau/argus-soc/internal/llm"
	"github.com/nmoreau/argus-soc/internal/logger"
	"github.com/nmoreau/argus-soc/internal/monitoring"
	"github.com/nmoreau/argus-soc/internal/services"
	"github.com/nmoreau/argus-soc/internal/telemetry"
	"github.com/nmoreau/argus-soc/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the directory for scheduled report output exists
	if err := os.MkdirAll(cfg.ReportOutputDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create report output directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Telemetry feeds compliance metrics on reports
	collector := telemetry.NewCollector()

	// Remote assistant backend; nil when no API key is configured
	generator := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	var gen llm.Generator
	if generator != nil {
		gen = generator
	} else {
		log.Warn().Msg("No completion API key configured, assistant will use the local fallback only")
	}

	// Set up services
	clientService := services.NewClientService(db)
	assetService := services.NewAssetService(db)
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db)
	reportService := services.NewReportService(clientService, assetService, eventService, collector)
	chatService := services.NewChatService(assetService, eventService, gen)
	scheduleService := services.NewScheduleService(db)

	// Set up and run the background report scheduler
	scheduler := monitoring.NewScheduler(scheduleService, reportService, hub, cfg.ReportOutputDir)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(hub, collector, clientService, assetService, eventService,
		userService, reportService, chatService, scheduleService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
