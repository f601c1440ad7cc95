package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/database"
	"github.com/studentflow/studentflow-backend/internal/handler"
	"github.com/studentflow/studentflow-backend/internal/logger"
	"github.com/studentflow/studentflow-backend/internal/middleware"
	"github.com/studentflow/studentflow-backend/internal/query"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/router"
	"github.com/studentflow/studentflow-backend/internal/service"
	"github.com/studentflow/studentflow-backend/internal/validator"
	"github.com/studentflow/studentflow-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting StudentFlow Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	storage, err := database.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(storage.Store)
	settingRepo := repository.NewSettingRepository(storage.Store)

	// ─── Initialize Services ──────────────────────────────────────────
	studentService := service.NewStudentService(studentRepo, query.NewEngine(cfg.PageSize), log)
	transferService := service.NewTransferService(studentRepo, settingRepo, log)
	reportService := service.NewReportService(studentRepo)
	settingService := service.NewSettingService(settingRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Student:  handler.NewStudentHandler(studentService, log),
		Transfer: handler.NewTransferHandler(transferService, cfg.MaxUploadBytes, log),
		Report:   handler.NewReportHandler(reportService, log),
		Setting:  handler.NewSettingHandler(settingService, log),
		System:   handler.NewSystemHandler(storage.Store, storage.Driver, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	backupWorker := worker.NewBackupWorker(transferService, cfg.BackupDir, cfg.BackupInterval, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		backupWorker.Start(workerCtx)
	}()

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(workerCtx, cfg.RateLimit, time.Minute)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, limiter)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers; the backup worker writes a final backup.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
