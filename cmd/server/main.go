package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wrongnote/internal/api"
	"github.com/vytor/wrongnote/internal/config"
	"github.com/vytor/wrongnote/internal/db"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/repository/sqlite"
	"github.com/vytor/wrongnote/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Wrongnote Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("stats_timezone=%s", cfg.StatsTimezone)
	log.Debug("wrong_answer_limit=%d", cfg.WrongAnswerLimit)
	log.Debug("shutdown_timeout=%s", cfg.ShutdownTimeout)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Warn("database close: %v", err)
		}
	}()

	// Initialize repositories
	examRepo := sqlite.NewExamResultRepository(database.DB)
	dailyRepo := sqlite.NewDailyStatRepository(database.DB)
	globalRepo := sqlite.NewGlobalStatRepository(database.DB)
	reviewRepo := sqlite.NewReviewStatusRepository(database.DB)

	// Initialize services
	loc := cfg.Location()
	globalStatsService := services.NewGlobalStatsService(globalRepo)
	dailyStatsService := services.NewDailyStatsService(dailyRepo, globalStatsService, loc)

	srv := api.NewServer(
		services.NewExamResultService(examRepo, dailyStatsService, nil),
		dailyStatsService,
		services.NewSummaryService(examRepo, dailyRepo, globalRepo, loc),
		services.NewReviewService(reviewRepo, nil),
		services.NewWrongAnswerService(examRepo, loc, cfg.WrongAnswerLimit, nil),
		database,
	)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Wrongnote Server Stopped")
	log.Info("===========================================")
}
